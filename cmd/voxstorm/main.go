// Package main is the entry point for the voxstorm scene editor shell.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/voxstorm/internal/config"
	"github.com/dshills/voxstorm/internal/engine/memento"
	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/session"
	"github.com/dshills/voxstorm/internal/engine/snapshot"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// logLevel is shared with the config watcher so live edits of the config
// file adjust logging without a restart.
var logLevel = new(slog.LevelVar)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "voxstorm",
		Short:         "voxel scene editing engine shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "voxstorm.toml", "path to configuration file")

	root.AddCommand(newReplCmd(&configPath))
	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("voxstorm %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// newSession builds a session from the configuration: logger, snapshot
// codec, history handler and an empty scene graph.
func newSession(cfg config.Config) (*session.Session, error) {
	applyLogLevel(cfg)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	codec, err := snapshot.ForName(cfg.History.Compression)
	if err != nil {
		return nil, err
	}
	history := memento.NewHandler(
		memento.WithCodec(codec),
		memento.WithMaxStates(cfg.History.MaxStates),
		memento.WithLogger(logger),
	)
	graph := scenegraph.New()
	logger.Debug("session created", "document", graph.ID(), "codec", codec.Name())
	return session.New(graph, history, logger), nil
}

func applyLogLevel(cfg config.Config) {
	switch cfg.Log.Level {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "warn":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}
}

// watchConfig hot-reloads the log level while the shell runs. The returned
// closer is a no-op when the file cannot be watched.
func watchConfig(path string) func() {
	w, err := config.NewWatcher(path)
	if err != nil {
		return func() {}
	}
	w.OnChange(func(cfg config.Config) {
		applyLogLevel(cfg)
		slog.Info("configuration reloaded", "path", path)
	})
	return func() { _ = w.Close() }
}
