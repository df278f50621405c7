package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/models"
)

var (
	addContent    string
	addAnswer     string
	addTags       string
	addTitle      string
	addChapter    string
	addDifficulty string
	addSource     string
	addAnalysis   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new problem",
	Long: `Add a new problem. Without --content the problem is entered interactively.

Example:
  physbank add --content "求单摆周期" --answer "2π√(l/g)" --tags "力学,振动"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("content") {
			return newRouter(cmd).Navigate(cmd.Context(), "/add")
		}
		if strings.TrimSpace(addContent) == "" {
			return errors.New("content must not be empty")
		}

		s, err := useProblemStore()
		if err != nil {
			return err
		}

		p, err := s.AddProblem(cmd.Context(), models.CreatePayload{
			Title:      addTitle,
			Chapter:    addChapter,
			Difficulty: addDifficulty,
			Source:     addSource,
			Content:    addContent,
			Answer:     addAnswer,
			Analysis:   addAnalysis,
			Tags:       models.ParseTags(addTags),
		})
		if err != nil {
			return fmt.Errorf("error adding problem: %w", err)
		}

		printAdded(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Problem statement")
	addCmd.Flags().StringVarP(&addAnswer, "answer", "a", "", "Reference answer")
	addCmd.Flags().StringVarP(&addTags, "tags", "t", "", "Comma-separated tags (e.g. 力学,运动学)")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Short title")
	addCmd.Flags().StringVar(&addChapter, "chapter", "", "Textbook chapter")
	addCmd.Flags().StringVar(&addDifficulty, "difficulty", "", "Difficulty (e.g. easy, medium, hard)")
	addCmd.Flags().StringVar(&addSource, "source", "", "Where the problem comes from")
	addCmd.Flags().StringVar(&addAnalysis, "analysis", "", "Worked solution")
}
