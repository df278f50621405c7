package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show problem bank statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := useProblemStore()
		if err != nil {
			return err
		}

		problems, err := s.FetchProblems(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching problems: %w", err)
		}

		out := cmd.OutOrStdout()
		analysed := 0
		for _, p := range problems {
			if p.Analysis != "" {
				analysed++
			}
		}

		fmt.Fprintln(out, "📊 Statistics")
		fmt.Fprintln(out, "-------------")
		fmt.Fprintf(out, "Total Problems: %d\n", len(problems))
		fmt.Fprintf(out, "With Analysis:  %d\n", analysed)

		printDistribution(out, "Difficulty", countBy(problems, func(p models.Problem) []string {
			return []string{dash(p.Difficulty)}
		}))
		printDistribution(out, "Chapter", countBy(problems, func(p models.Problem) []string {
			return []string{dash(p.Chapter)}
		}))
		printDistribution(out, "Tag", countBy(problems, func(p models.Problem) []string {
			return p.Tags
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type bucket struct {
	name  string
	count int
}

// countBy tallies problems per key, largest bucket first.
func countBy(problems []models.Problem, keys func(models.Problem) []string) []bucket {
	counts := make(map[string]int)
	for _, p := range problems {
		for _, k := range keys(p) {
			counts[k]++
		}
	}
	buckets := make([]bucket, 0, len(counts))
	for name, n := range counts {
		buckets = append(buckets, bucket{name: name, count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].name < buckets[j].name
	})
	return buckets
}

func printDistribution(out io.Writer, label string, buckets []bucket) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(out, "\n📈 Problems by %s\n", label)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCount\n", label)
	fmt.Fprintf(w, "%s\t-----\n", strings.Repeat("-", len(label)))
	for _, b := range buckets {
		fmt.Fprintf(w, "%s\t%d\t%s\n", b.name, b.count, strings.Repeat("█", b.count))
	}
	w.Flush()
}
