package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beanlens/beanlens/internal/catalog"
	"github.com/beanlens/beanlens/internal/config"
)

var (
	catalogVersion  string
	providerCoords  []string
	catalogGroup    string
	catalogArtifact string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage versioned framework catalog artifacts",
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <version>",
	Short: "Download a catalog version into the local cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		m, err := newCatalogManager(cfg)
		if err != nil {
			return err
		}
		if !m.LoadVersion(cmd.Context(), args[0]) {
			return fmt.Errorf("could not load catalog version %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded catalog %s\n", m.LoadedVersion())
		return nil
	},
}

var catalogResourceCmd = &cobra.Command{
	Use:   "resource <name>",
	Short: "Print a resource from the loaded catalog jars",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		version := catalogVersion
		if version == "" {
			version = cfg.CatalogVersion
		}
		if version == "" {
			return fmt.Errorf("no catalog version given; use --catalog-version or set catalogVersion in the config")
		}

		m, err := newCatalogManager(cfg)
		if err != nil {
			return err
		}
		if !m.LoadVersion(cmd.Context(), version) {
			return fmt.Errorf("could not load catalog version %s", version)
		}
		for _, coords := range providerCoords {
			group, artifact, providerVersion, err := parseCoords(coords)
			if err != nil {
				return err
			}
			if !m.LoadRuntimeProviderVersion(cmd.Context(), group, artifact, providerVersion) {
				return fmt.Errorf("could not load runtime provider %s", coords)
			}
		}

		rc, ok := m.Resource(args[0])
		if !ok {
			return fmt.Errorf("resource %q not found in loaded catalogs", args[0])
		}
		defer rc.Close()
		_, err = io.Copy(cmd.OutOrStdout(), rc)
		return err
	},
}

var catalogVersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the catalog versions a repository advertises",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		m, err := newCatalogManager(cfg)
		if err != nil {
			return err
		}
		versions, err := m.Versions(cmd.Context(), catalogGroup, catalogArtifact)
		if err != nil {
			return err
		}
		for _, v := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

// parseCoords splits group:artifact:version.
func parseCoords(s string) (group, artifact, version string, err error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid coordinates %q, expected group:artifact:version", s)
	}
	return parts[0], parts[1], parts[2], nil
}

func init() {
	catalogResourceCmd.Flags().StringVar(&catalogVersion, "catalog-version", "", "Catalog version to load")
	catalogResourceCmd.Flags().StringArrayVar(&providerCoords, "runtime-provider", nil,
		"Runtime provider artifact as group:artifact:version (repeatable; consulted before the main catalog)")
	catalogVersionsCmd.Flags().StringVar(&catalogGroup, "group", catalog.DefaultGroup, "Artifact group to list")
	catalogVersionsCmd.Flags().StringVar(&catalogArtifact, "artifact", catalog.DefaultArtifact, "Artifact to list")

	catalogCmd.AddCommand(catalogGetCmd)
	catalogCmd.AddCommand(catalogResourceCmd)
	catalogCmd.AddCommand(catalogVersionsCmd)
	rootCmd.AddCommand(catalogCmd)
}
