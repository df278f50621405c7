package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/models"
)

var (
	practiceTag   string
	practiceLimit int
	practiceOpen  bool
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a practice session",
	Long: `Start a practice session. Each problem is shown, you type your answer,
and the AI scorer grades it before the reference answer is revealed.
With --local there is no scorer and you compare against the answer yourself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := useProblemStore()
		if err != nil {
			return err
		}

		problems, err := s.FetchProblems(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching problems: %w", err)
		}
		problems = filterByTag(problems, practiceTag)
		if practiceLimit > 0 && len(problems) > practiceLimit {
			problems = problems[:practiceLimit]
		}

		out := cmd.OutOrStdout()
		if len(problems) == 0 {
			fmt.Fprintln(out, "✅ Nothing to practice!")
			return nil
		}

		ai, aiErr := assistant(s)
		if aiErr != nil {
			fmt.Fprintln(out, "ℹ️  AI scoring unavailable, answers will not be graded.")
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		for i, p := range problems {
			fmt.Fprintln(out, "\n========================================")
			fmt.Fprintf(out, "Practicing [%d/%d]: %s\n", i+1, len(problems), headline(p))
			if len(p.Tags) > 0 {
				fmt.Fprintf(out, "Tags: %s\n", strings.Join(p.Tags, ", "))
			}
			fmt.Fprintln(out, "========================================")
			fmt.Fprintln(out, p.Content)

			if practiceOpen && strings.HasPrefix(p.Source, "http") {
				fmt.Fprintln(out, "🌐 Opening source in browser...")
				openBrowser(out, p.Source)
			}

			fmt.Fprint(out, "\nYour answer (blank to skip): ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)
			if input == "" {
				fmt.Fprintln(out, "⏭️  Skipped.")
				revealAnswer(out, p)
				continue
			}

			if ai != nil {
				resp, err := ai.ScoreProblem(cmd.Context(), models.ScoreRequest{
					ID:      p.ID,
					Content: p.Content,
					Answer:  input,
					Tags:    p.Tags,
				})
				if err != nil {
					fmt.Fprintf(out, "❌ Error scoring answer: %v\n", err)
				} else {
					fmt.Fprintln(out, "🧮 AI score")
					printResponse(out, resp)
				}
			}
			revealAnswer(out, p)
		}

		fmt.Fprintln(out, "\n🎉 Practice session complete!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)
	practiceCmd.Flags().StringVarP(&practiceTag, "tag", "t", "", "Only practice problems with this tag")
	practiceCmd.Flags().IntVarP(&practiceLimit, "limit", "n", 0, "Practice at most this many problems")
	practiceCmd.Flags().BoolVarP(&practiceOpen, "open", "o", false, "Open the problem source URL in a browser")
}

func revealAnswer(out io.Writer, p models.Problem) {
	fmt.Fprintf(out, "📖 Reference answer: %s\n", p.Answer)
	if p.Analysis != "" {
		fmt.Fprintf(out, "💡 Analysis: %s\n", p.Analysis)
	}
}

func openBrowser(out io.Writer, url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}
	if err != nil {
		fmt.Fprintf(out, "❌ Failed to open browser: %v\n", err)
	}
}
