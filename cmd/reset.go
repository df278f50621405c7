package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/physbank/internal/config"
	"github.com/LavenderBridge/physbank/internal/db"
	"github.com/LavenderBridge/physbank/internal/store"
)

var forceReset bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the local problem bank",
	Long: `Clear the local problem bank. The sample problems are restored the next
time the local store is opened. Only valid with --local.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Storage.Mode != config.ModeLocal {
			return errors.New("reset only applies to the local store (use --local)")
		}
		out := cmd.OutOrStdout()

		if !forceReset {
			fmt.Fprintf(out, "⚠️  This deletes every problem in %s. Continue? (y/N): ", cfg.Storage.Path)
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "y" && input != "yes" {
				fmt.Fprintln(out, "❌ Cancelled.")
				return nil
			}
		}

		kv, err := db.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		defer kv.Close()

		if err := kv.RemoveItem(store.StorageKey); err != nil {
			return fmt.Errorf("error clearing problems: %w", err)
		}
		fmt.Fprintln(out, "✅ Local problem bank cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&forceReset, "force", "f", false, "Skip confirmation")
}
