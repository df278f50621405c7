package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/models"
	"github.com/LavenderBridge/physbank/internal/router"
)

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open an application path such as /question/1",
	Long: `Open an application path:

  /                    problem list
  /question/:id        problem detail
  /question/:id/edit   edit a problem interactively
  /add                 add a problem interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		return newRouter(cmd).Navigate(cmd.Context(), path)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// newRouter wires each route to a view writing to cmd's output.
func newRouter(cmd *cobra.Command) *router.Router {
	r := router.New()
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	r.Register(router.Home, func() router.View {
		return router.ViewFunc(func(ctx context.Context, _ map[string]string) error {
			return homeView(ctx, out)
		})
	})
	r.Register(router.QuestionDetail, func() router.View {
		return router.ViewFunc(func(ctx context.Context, params map[string]string) error {
			return detailView(ctx, out, params["id"])
		})
	})
	r.Register(router.EditQuestion, func() router.View {
		return router.ViewFunc(func(ctx context.Context, params map[string]string) error {
			return editView(ctx, in, out, params["id"])
		})
	})
	r.Register(router.AddQuestion, func() router.View {
		return router.ViewFunc(func(ctx context.Context, _ map[string]string) error {
			return addView(ctx, in, out)
		})
	})
	return r
}

func homeView(ctx context.Context, out io.Writer) error {
	s, err := useProblemStore()
	if err != nil {
		return err
	}
	problems, err := s.FetchProblems(ctx)
	if err != nil {
		return fmt.Errorf("error listing problems: %w", err)
	}
	if len(problems) == 0 {
		fmt.Fprintln(out, "📭 No problems yet. Add one with `physbank add`.")
		return nil
	}
	fmt.Fprintf(out, "📚 %d problems:\n\n", len(problems))
	printTable(out, problems)
	return nil
}

func detailView(ctx context.Context, out io.Writer, id string) error {
	s, err := useProblemStore()
	if err != nil {
		return err
	}
	p, err := s.FetchProblemDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("error fetching problem %s: %w", id, err)
	}
	printProblem(out, p)
	return nil
}

func editView(ctx context.Context, in *bufio.Reader, out io.Writer, id string) error {
	s, err := useProblemStore()
	if err != nil {
		return err
	}
	if err := warm(ctx, s); err != nil {
		return err
	}
	current, ok := s.GetProblemByID(id)
	if !ok {
		return fmt.Errorf("problem not found with ID: %s", id)
	}

	fmt.Fprintf(out, "✏️  Editing problem %s (blank keeps the current value)\n", id)
	var updates models.UpdatePayload
	updates.Title = promptChange(in, out, "Title", current.Title)
	updates.Chapter = promptChange(in, out, "Chapter", current.Chapter)
	updates.Difficulty = promptChange(in, out, "Difficulty", current.Difficulty)
	updates.Source = promptChange(in, out, "Source", current.Source)
	updates.Content = promptChange(in, out, "Content", current.Content)
	updates.Answer = promptChange(in, out, "Answer", current.Answer)
	updates.Analysis = promptChange(in, out, "Analysis", current.Analysis)
	if v := promptChange(in, out, "Tags", models.JoinTags(current.Tags)); v != nil {
		tags := models.ParseTags(*v)
		updates.Tags = &tags
	}

	if updates.IsEmpty() {
		fmt.Fprintln(out, "ℹ️  Nothing changed.")
		return nil
	}
	p, err := s.UpdateProblem(ctx, id, updates)
	if err != nil {
		return fmt.Errorf("error updating problem: %w", err)
	}
	fmt.Fprintf(out, "✅ Problem %s updated successfully!\n", p.ID)
	return nil
}

func addView(ctx context.Context, in *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out, "➕ New problem")
	payload := models.CreatePayload{
		Title:      prompt(in, out, "Title"),
		Chapter:    prompt(in, out, "Chapter"),
		Difficulty: prompt(in, out, "Difficulty"),
		Source:     prompt(in, out, "Source"),
		Content:    prompt(in, out, "Content"),
		Answer:     prompt(in, out, "Answer"),
		Analysis:   prompt(in, out, "Analysis"),
		Tags:       models.ParseTags(prompt(in, out, "Tags (comma-separated)")),
	}
	if payload.Content == "" {
		return errors.New("content must not be empty")
	}

	s, err := useProblemStore()
	if err != nil {
		return err
	}
	p, err := s.AddProblem(ctx, payload)
	if err != nil {
		return fmt.Errorf("error adding problem: %w", err)
	}
	printAdded(out, p)
	return nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptChange returns nil when the input is blank or equals current.
func promptChange(in *bufio.Reader, out io.Writer, label, current string) *string {
	fmt.Fprintf(out, "%s [%s]: ", label, current)
	line, _ := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" || line == current {
		return nil
	}
	return &line
}
