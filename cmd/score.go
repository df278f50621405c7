package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/models"
)

var scoreAnswer string

var scoreCmd = &cobra.Command{
	Use:   "score [id]",
	Short: "Have the AI grade your answer to a problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(scoreAnswer) == "" {
			return errors.New("--answer is required")
		}

		s, err := useProblemStore()
		if err != nil {
			return err
		}
		ai, err := assistant(s)
		if err != nil {
			return err
		}

		p, err := s.FetchProblemDetail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error fetching problem %s: %w", args[0], err)
		}

		resp, err := ai.ScoreProblem(cmd.Context(), models.ScoreRequest{
			ID:      p.ID,
			Content: p.Content,
			Answer:  scoreAnswer,
			Tags:    p.Tags,
		})
		if err != nil {
			return fmt.Errorf("error scoring answer: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "🧮 AI score")
		fmt.Fprintln(out, "----------")
		return printResponse(out, resp)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [id] [question...]",
	Short: "Ask the AI a question about a problem",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := useProblemStore()
		if err != nil {
			return err
		}
		ai, err := assistant(s)
		if err != nil {
			return err
		}

		p, err := s.FetchProblemDetail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error fetching problem %s: %w", args[0], err)
		}

		resp, err := ai.AskAI(cmd.Context(), models.AskRequest{
			ID:       p.ID,
			Content:  p.Content,
			Question: strings.Join(args[1:], " "),
		})
		if err != nil {
			return fmt.Errorf("error asking AI: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "🤖 AI answer")
		fmt.Fprintln(out, "-----------")
		return printResponse(out, resp)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(askCmd)

	scoreCmd.Flags().StringVarP(&scoreAnswer, "answer", "a", "", "Your answer to grade")
}
