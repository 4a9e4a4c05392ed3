package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olafglad/react-state-map-sub000/internal/cli/config"
	"github.com/olafglad/react-state-map-sub000/internal/watch"
	"github.com/olafglad/react-state-map-sub000/statemap"
)

// NewWatchCommand creates the continuous watch-and-reanalyze command. Every
// change batch triggers a whole fresh run; a newer result replaces the older
// one wholesale and the graph fingerprint tells consumers whether anything
// actually changed.
func NewWatchCommand() *cobra.Command {
	var threshold int
	var format string
	var output string
	var debug bool

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-run the analysis whenever source files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if threshold > 0 {
				cfg.DrillingThreshold = threshold
			}
			if format != "" {
				cfg.Format = format
			}

			logger, err := zap.NewDevelopment()
			if err != nil {
				logger = zap.NewNop()
			}
			if !debug {
				logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
			}
			defer logger.Sync()

			// runMu serializes runs; lastFingerprint and the output file
			// are only touched under it.
			var runMu sync.Mutex
			var lastFingerprint uint64
			run := func(trigger []string) {
				runMu.Lock()
				defer runMu.Unlock()
				graph, err := RunAnalysis(context.Background(), dir, cfg)
				if err != nil {
					logger.Error("analysis failed", zap.Error(err))
					return
				}
				fingerprint, err := statemap.Fingerprint(graph)
				if err != nil {
					logger.Error("fingerprint failed", zap.Error(err))
					return
				}
				if fingerprint == lastFingerprint {
					logger.Info("graph unchanged", zap.Int("changedFiles", len(trigger)))
					return
				}
				lastFingerprint = fingerprint
				data, err := emit(graph, cfg.Format)
				if err != nil {
					logger.Error("emit failed", zap.Error(err))
					return
				}
				if output != "" {
					if err := os.WriteFile(output, data, 0o644); err != nil {
						logger.Error("write failed", zap.String("path", output), zap.Error(err))
						return
					}
				}
				logger.Info("graph updated",
					zap.Int("components", len(graph.Components)),
					zap.Int("edges", len(graph.Edges)),
					zap.Int("drillingPaths", len(graph.DrillingPaths)),
					zap.Int("warnings", len(graph.Warnings)))
			}

			run(nil)

			watcher, err := watch.NewFileWatcher(dir,
				[]string{".jsx", ".tsx"},
				[]string{"node_modules", ".git", "dist", "build", ".next"},
				logger, run)
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", dir)
			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
			<-signals
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "minimum chain length reported as drilling (>= 2)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write each updated graph to a file")
	cmd.Flags().BoolVar(&debug, "debug", false, "log individual file events")
	return cmd
}
