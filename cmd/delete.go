package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var forceDelete bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		out := cmd.OutOrStdout()

		s, err := useProblemStore()
		if err != nil {
			return err
		}

		if !forceDelete {
			fmt.Fprintf(out, "⚠️  Are you sure you want to delete problem %s? (y/N): ", id)
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "y" && input != "yes" {
				fmt.Fprintln(out, "❌ Cancelled.")
				return nil
			}
		}

		if err := s.DeleteProblem(cmd.Context(), id); err != nil {
			return fmt.Errorf("error deleting problem: %w", err)
		}

		fmt.Fprintln(out, "✅ Problem deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation")
}
