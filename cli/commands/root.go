package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/meikuraledutech/wfgraph"
	"github.com/meikuraledutech/wfgraph/backend"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	storeKey string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "wfgraph",
	Short: "Inspect and maintain the stored workflow graph",
	Long: `wfgraph reads the workflow graph snapshot from the configured backend
(WFGRAPH_BACKEND: memory, fs, sqlite, redis, postgres) and lets you show, export,
validate, diff, import or reset it, and list the keys stored in the backend.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Environment file to load (default: .env)")
	rootCmd.PersistentFlags().StringVar(&storeKey, "key", "", "Storage key (default: WFGRAPH_KEY or workflowStore)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log storage diagnostics to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openKV loads the configuration and connects the configured backend.
func openKV(ctx context.Context) (wfgraph.KV, backend.Config, func(), error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := backend.Load(files...)
	if err != nil {
		return nil, cfg, nil, err
	}
	if storeKey != "" {
		cfg.Key = storeKey
	}

	kv, closeKV, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	return kv, cfg, closeKV, nil
}

// openStore connects the configured backend and initializes a store from it.
func openStore(ctx context.Context, cmd *cobra.Command) (*wfgraph.GraphStore, func(), error) {
	kv, cfg, closeKV, err := openKV(ctx)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(errOut(cmd), "", log.LstdFlags)
	}

	store := wfgraph.New(kv, wfgraph.WithKey(cfg.Key), wfgraph.WithLogger(logger))
	store.Initialize(ctx)
	return store, closeKV, nil
}

func out(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func errOut(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}

func cmdContext(cmd *cobra.Command) context.Context {
	if cmd == nil || cmd.Context() == nil {
		return context.Background()
	}
	return cmd.Context()
}

// readSnapshotFile loads a JSON or YAML snapshot, chosen by file extension.
func readSnapshotFile(path string) (wfgraph.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wfgraph.Snapshot{}, fmt.Errorf("failed to read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return wfgraph.DecodeYAML(data)
	default:
		return wfgraph.Decode(data)
	}
}
