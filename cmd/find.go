package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beanlens/beanlens/internal/beanname"
	"github.com/beanlens/beanlens/internal/config"
)

var findAnnotation string

var findCmd = &cobra.Command{
	Use:   "find <bean-name> [dir]",
	Short: "Find the class behind a bean name",
	Long: `Searches stereotype-annotated classes for the one whose bean name matches
the given name, checking each annotation in priority order. With --annotation
only classes carrying that annotation are considered.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		ix, cleanup, err := buildIndex(cmd.Context(), scanDirArg(args, 1))
		if err != nil {
			return err
		}
		defer cleanup()

		annotations := newResolver(cfg).Priority()
		if findAnnotation != "" {
			annotations = []string{findAnnotation}
		}
		for _, fqn := range annotations {
			if class, ok := beanname.FindClassByName(ix, args[0], fqn); ok {
				fmt.Fprintln(cmd.OutOrStdout(), class.FQN)
				return nil
			}
		}
		return fmt.Errorf("no bean named %q found", args[0])
	},
}

func init() {
	findCmd.Flags().StringVar(&findAnnotation, "annotation", "", "Restrict the search to one annotation FQN")
	rootCmd.AddCommand(findCmd)
}
