package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one problem with its answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := useProblemStore()
		if err != nil {
			return err
		}

		p, err := s.FetchProblemDetail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error fetching problem %s: %w", args[0], err)
		}

		if showJSON {
			return printJSON(cmd.OutOrStdout(), p)
		}
		printProblem(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the problem as JSON")
}
