package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beanlens/beanlens/internal/config"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <class-fqn> [dir]",
	Short: "Print the effective bean name of a class",
	Args:  cobra.RangeArgs(1, 2),
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

		class, ok := ix.FindClass(args[0])
		if !ok {
			return fmt.Errorf("class %s not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), newResolver(cfg).Resolve(class))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
