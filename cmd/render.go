package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/LavenderBridge/physbank/internal/models"
)

func printTable(out io.Writer, problems []models.Problem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTitle\tDiff\tChapter\tTags")
	fmt.Fprintln(w, "--\t-----\t----\t-------\t----")

	for _, p := range problems {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, headline(p), dash(p.Difficulty), dash(p.Chapter), strings.Join(p.Tags, ", "))
	}
	w.Flush()
}

func printProblem(out io.Writer, p models.Problem) {
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "[%s] %s\n", p.ID, headline(p))
	if p.Chapter != "" || p.Difficulty != "" {
		fmt.Fprintf(out, "Chapter: %s | Difficulty: %s\n", dash(p.Chapter), dash(p.Difficulty))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", p.Source)
	}
	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out, p.Content)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Answer: %s\n", p.Answer)
	if p.Analysis != "" {
		fmt.Fprintf(out, "Analysis: %s\n", p.Analysis)
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printResponse renders a raw AI response, one key per line when it is flat.
func printResponse(out io.Writer, resp map[string]any) error {
	keys := make([]string, 0, len(resp))
	for k := range resp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := resp[k].(type) {
		case string, float64, bool, nil:
			fmt.Fprintf(out, "%s: %v\n", k, v)
		default:
			fmt.Fprintf(out, "%s:\n", k)
			if err := printJSON(out, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func printAdded(out io.Writer, p models.Problem) {
	if p.ID == "" {
		fmt.Fprintf(out, "✅ Added problem (%s)\n", headline(p))
		return
	}
	fmt.Fprintf(out, "✅ Added problem %s (%s)\n", p.ID, headline(p))
}

// headline is the title, or the start of the content when untitled.
func headline(p models.Problem) string {
	if p.Title != "" {
		return p.Title
	}
	s := strings.Join(strings.Fields(p.Content), " ")
	if utf8.RuneCountInString(s) <= 24 {
		return s
	}
	return string([]rune(s)[:24]) + "…"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func filterByTag(problems []models.Problem, tag string) []models.Problem {
	if tag == "" {
		return problems
	}
	out := []models.Problem{}
	for _, p := range problems {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}
