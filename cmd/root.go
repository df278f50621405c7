package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LavenderBridge/physbank/internal/api"
	"github.com/LavenderBridge/physbank/internal/config"
	"github.com/LavenderBridge/physbank/internal/db"
	"github.com/LavenderBridge/physbank/internal/logging"
	"github.com/LavenderBridge/physbank/internal/store"
)

var (
	cfgFile    string
	apiURL     string
	forceLocal bool
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()

	problemStore store.Store
	closeStore   func() error
)

var rootCmd = &cobra.Command{
	Use:   "physbank",
	Short: "Browse, edit and AI-score physics practice problems",
	Long: `physbank manages a bank of physics practice problems.

Problems live on the problem API server, or in a local SQLite file
when run with --local. Answers can be graded by the server's AI scorer.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath())
		if err != nil {
			return err
		}
		if apiURL != "" {
			loaded.API.BaseURL = apiURL
		}
		if forceLocal {
			loaded.Storage.Mode = config.ModeLocal
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		releaseStore()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	err := rootCmd.Execute()
	releaseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.physbank/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Problem API server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&forceLocal, "local", "l", false, "Use the local SQLite store instead of the API server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
}

// useProblemStore returns the store for this invocation, opening it on first use.
func useProblemStore() (store.Store, error) {
	if problemStore != nil {
		return problemStore, nil
	}

	switch cfg.Storage.Mode {
	case config.ModeLocal:
		kv, err := db.Open(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		s, err := store.NewLocal(kv, store.WithLocalLogger(logger))
		if err != nil {
			kv.Close()
			return nil, err
		}
		problemStore, closeStore = s, kv.Close
	default:
		client := api.New(cfg.API.BaseURL,
			api.WithTimeout(cfg.GetTimeout()),
			api.WithLogger(logger),
			api.WithDebug(cfg.API.Debug),
		)
		problemStore = store.NewRemote(client, store.WithRemoteLogger(logger))
	}
	return problemStore, nil
}

// releaseStore closes the store opened by useProblemStore, if any.
func releaseStore() {
	if closeStore != nil {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}
	problemStore, closeStore = nil, nil
	_ = logger.Sync()
}

// warm makes sure the cache holds the collection before cache lookups.
// A failed background fetch is retried once so its error reaches the caller.
func warm(ctx context.Context, s store.Store) error {
	r, ok := s.(*store.Remote)
	if !ok {
		return nil
	}
	r.EnsureInitialized(ctx)
	r.Wait()
	if r.Initialized() {
		return nil
	}
	if _, err := r.FetchProblems(ctx); err != nil {
		return fmt.Errorf("error fetching problems: %w", err)
	}
	return nil
}

// assistant returns the AI endpoints of s, if it has any.
func assistant(s store.Store) (store.Assistant, error) {
	a, ok := s.(store.Assistant)
	if !ok {
		return nil, fmt.Errorf("AI features need the problem API server (not available with --local)")
	}
	return a, nil
}
