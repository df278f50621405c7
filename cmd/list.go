package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listTag  string
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := useProblemStore()
		if err != nil {
			return err
		}

		problems, err := s.FetchProblems(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing problems: %w", err)
		}
		problems = filterByTag(problems, listTag)

		out := cmd.OutOrStdout()
		if listJSON {
			return printJSON(out, problems)
		}
		if len(problems) == 0 {
			fmt.Fprintln(out, "📭 No problems yet. Add one with `physbank add`.")
			return nil
		}

		fmt.Fprintf(out, "📚 %d problems:\n\n", len(problems))
		printTable(out, problems)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "Only show problems with this tag")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print problems as JSON")
}
