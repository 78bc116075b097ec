package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beanlens/beanlens/internal/beanname"
	"github.com/beanlens/beanlens/internal/catalog"
	"github.com/beanlens/beanlens/internal/config"
	"github.com/beanlens/beanlens/internal/ignore"
	"github.com/beanlens/beanlens/internal/index"
	"github.com/beanlens/beanlens/internal/storage"
)

var (
	configPath string
	cacheDir   string
	noCache    bool
	repoFlags  []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "beanlens",
	Short: "Bean discovery for Java source trees",
	Long: `beanlens scans Java sources, resolves the effective bean name of every
stereotype-annotated class, finds the class behind a bean name, and manages
versioned framework catalog artifacts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			fmt.Printf("beanlens version %s\n", getVersion())
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Listen for cancellation
	// - in shells for user-initiated interruption SIGINT
	// - in system sent/container environments, SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

// getVersion returns the version of the application from build info
func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a beanlens config file")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Override the artifact cache directory")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Do not read or write the persistent scan cache")
	rootCmd.PersistentFlags().StringArrayVar(&repoFlags, "repo", nil, "Additional artifact repository as name=url (repeatable)")

	// Add version flag
	rootCmd.Flags().BoolP("version", "v", false, "Print the version number and exit")
}

// buildIndex loads ignore rules and scans dir. The returned cleanup closes
// the persistent cache when one is open.
func buildIndex(ctx context.Context, dir string) (*index.Index, func(), error) {
	ignorer, err := ignore.LoadIgnoreFiles(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ignore files: %w", err)
	}

	cleanup := func() {}
	var store *storage.Store
	if !noCache {
		st, db, err := storage.Open(ctx, filepath.Join(dir, ".beanlens.db"))
		if err != nil {
			// The cache is an optimization; a broken one must not block scans.
			slog.Warn("scan cache unavailable", "error", err)
		} else {
			store = st
			cleanup = func() { _ = db.Close() }
		}
	}

	scanner, err := index.NewScanner(store, nil)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	ix, err := scanner.Scan(ctx, os.DirFS(dir), ignorer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return ix, cleanup, nil
}

func newResolver(cfg *config.Config) *beanname.Resolver {
	return beanname.New(cfg.ExtraStereotypes...)
}

// newCatalogManager builds the artifact manager from config and flags. Flag
// repositories are appended after config ones.
func newCatalogManager(cfg *config.Config) (*catalog.Manager, error) {
	dir := cacheDir
	if dir == "" {
		dir = cfg.CacheDir
	}
	if dir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine cache directory: %w", err)
		}
		dir = filepath.Join(userCache, "beanlens", "catalog")
	}

	m := catalog.NewManager(dir, nil)
	for _, r := range cfg.Repositories {
		m.AddRepository(r.Name, r.URL)
	}
	for _, f := range repoFlags {
		name, url, err := parseRepoFlag(f)
		if err != nil {
			return nil, err
		}
		m.AddRepository(name, url)
	}
	return m, nil
}

func parseRepoFlag(s string) (name, url string, err error) {
	name, url, ok := strings.Cut(s, "=")
	if !ok || name == "" || url == "" {
		return "", "", fmt.Errorf("invalid --repo value %q, expected name=url", s)
	}
	return name, url, nil
}

func scanDirArg(args []string, pos int) string {
	if len(args) > pos {
		return args[pos]
	}
	return "."
}
