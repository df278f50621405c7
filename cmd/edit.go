package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/models"
)

var (
	editContent    string
	editAnswer     string
	editTags       string
	editTitle      string
	editChapter    string
	editDifficulty string
	editSource     string
	editAnalysis   string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a problem",
	Long: `Edit a problem. Only the given flags change; other fields keep their value.
Without any flag the problem is edited interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		var updates models.UpdatePayload
		flags := cmd.Flags()
		if flags.Changed("content") {
			updates.Content = &editContent
		}
		if flags.Changed("answer") {
			updates.Answer = &editAnswer
		}
		if flags.Changed("tags") {
			tags := models.ParseTags(editTags)
			updates.Tags = &tags
		}
		if flags.Changed("title") {
			updates.Title = &editTitle
		}
		if flags.Changed("chapter") {
			updates.Chapter = &editChapter
		}
		if flags.Changed("difficulty") {
			updates.Difficulty = &editDifficulty
		}
		if flags.Changed("source") {
			updates.Source = &editSource
		}
		if flags.Changed("analysis") {
			updates.Analysis = &editAnalysis
		}

		if updates.IsEmpty() {
			return newRouter(cmd).Navigate(cmd.Context(), "/question/"+id+"/edit")
		}

		s, err := useProblemStore()
		if err != nil {
			return err
		}
		if err := warm(cmd.Context(), s); err != nil {
			return err
		}
		if _, ok := s.GetProblemByID(id); !ok {
			return fmt.Errorf("problem not found with ID: %s", id)
		}

		p, err := s.UpdateProblem(cmd.Context(), id, updates)
		if err != nil {
			return fmt.Errorf("error updating problem: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Problem %s updated successfully!\n", p.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New problem statement")
	editCmd.Flags().StringVarP(&editAnswer, "answer", "a", "", "New reference answer")
	editCmd.Flags().StringVarP(&editTags, "tags", "t", "", "Comma-separated tags (replaces existing)")
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editChapter, "chapter", "", "New chapter")
	editCmd.Flags().StringVar(&editDifficulty, "difficulty", "", "New difficulty")
	editCmd.Flags().StringVar(&editSource, "source", "", "New source")
	editCmd.Flags().StringVar(&editAnalysis, "analysis", "", "New worked solution")
}
