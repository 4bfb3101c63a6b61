package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/halim/orin/internal/logger"
	"github.com/halim/orin/pkg/eventstream"
	"github.com/halim/orin/pkg/manifest"
	"github.com/halim/orin/pkg/scheduler"
	"github.com/halim/orin/pkg/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the agent as a daemon",
	Long: `Run the agent with its HTTP surface: a WebSocket event stream on
/events, Prometheus metrics on /metrics, and a health check on /healthz.
Configured schedules are started, and the manifest directory is watched
so tool changes apply without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// agentRunner adapts the agent plus run metrics to the scheduler.
type agentRunner struct {
	app *app
}

func (r *agentRunner) Run(ctx context.Context, instruction string) tool.Result {
	started := time.Now()
	result := r.app.agent.Run(ctx, instruction)
	r.app.metrics.ObserveRun(result.Success, time.Since(started))
	return result
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	appLog, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	log := appLog.Zerolog()

	// The broadcaster exists before the agent so its callback can be
	// attached to every run.
	stream := eventstream.New(log)
	defer stream.Close()

	app, err := newApp(cfg, appLog, stream.Callback())
	if err != nil {
		return err
	}
	defer app.close()

	if err := os.MkdirAll(app.cfg.Tools.ManifestDir, 0o755); err != nil {
		return err
	}
	watcher, err := manifest.NewWatcher(app.cfg.Tools.ManifestDir, app.registry, log)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Close()

	sched := scheduler.New(&agentRunner{app: app}, log)
	for _, entry := range app.cfg.Schedules {
		if err := sched.Add(entry); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/events", stream.Handler())
	mux.Handle("/metrics", app.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:    app.cfg.Serve.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", app.cfg.Serve.Addr).Msg("Orin daemon listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
