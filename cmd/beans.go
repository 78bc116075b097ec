package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beanlens/beanlens/internal/config"
)

var beansCmd = &cobra.Command{
	Use:   "beans [dir]",
	Short: "List every class in scope with its resolved bean name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		ix, cleanup, err := buildIndex(cmd.Context(), scanDirArg(args, 0))
		if err != nil {
			return err
		}
		defer cleanup()

		resolver := newResolver(cfg)
		for _, c := range ix.Classes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", resolver.Resolve(c), c.FQN, c.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(beansCmd)
}
