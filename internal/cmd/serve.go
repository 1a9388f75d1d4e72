package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/xdg/multihook/internal/audit"
	"github.com/xdg/multihook/internal/config"
	"github.com/xdg/multihook/internal/endpoint"
	"github.com/xdg/multihook/internal/mlog"
	"github.com/xdg/multihook/internal/server"
)

type serveOptions struct {
	address string
	debug   bool
	daemon  bool
	watch   bool
}

var serveOpts serveOptions

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Start the webhook server and serve every configured endpoint.

The server stops on SIGINT or SIGTERM. It then stops accepting requests and
waits for running and detached hooks, up to server.shutdown_timeout.

With --watch, configuration changes are applied without a restart. A change
that fails to load is logged and the previous endpoints stay active.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd.Flags(), &serveOpts)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(fs *pflag.FlagSet, o *serveOptions) {
	fs.StringVarP(&o.address, "address", "a", "", "listen address (overrides server.address)")
	fs.BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	fs.BoolVar(&o.daemon, "daemon", false, "log to file only, not stderr")
	fs.BoolVarP(&o.watch, "watch", "w", false, "reload configuration on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, loadOptions(), serveOpts, nil)
}

// serve runs the server until ctx is done. ready, if non-nil, is called
// once the listener is up.
func serve(ctx context.Context, loadOpts config.LoadOptions, opts serveOptions, ready func(*server.Server)) error {
	cfg, err := config.Load(loadOpts)
	if err != nil {
		return err
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}

	level := mlog.ParseLevel(cfg.Log.Level)
	if opts.debug {
		level = mlog.LevelDebug
	}
	logPath := cfg.Log.File
	if logPath == "" && opts.daemon {
		logPath = mlog.DefaultLogPath()
	}
	if err := mlog.Configure(logPath, level, opts.daemon); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() { _ = mlog.Close() }()

	auditLogger, closeAudit, err := openAuditLog(cfg.Log.AuditFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeAudit.Close() }()

	eps, err := endpoint.BuildAll(cfg)
	if err != nil {
		return err
	}
	if len(eps) == 0 {
		mlog.Warn("no endpoints configured; see %s", config.DefaultConfigPath(config.Dir()))
	}

	srv := server.New(cfg.Server.Address, server.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		AuditLogger:  auditLogger,
	})
	srv.SetEndpoints(eps)
	if err := srv.Start(); err != nil {
		return err
	}
	if ready != nil {
		ready(srv)
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.watch {
		g.Go(func() error {
			return config.Watch(gctx, watchPaths(loadOpts), config.DefaultWatchDebounce, func() {
				reload(srv, loadOpts, cfg.Server.Address)
			})
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		mlog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

// reload rebuilds the endpoints from the current configuration and swaps
// them in. On error the running endpoints are kept.
func reload(srv *server.Server, loadOpts config.LoadOptions, address string) {
	cfg, err := config.Load(loadOpts)
	if err != nil {
		mlog.Error("config reload failed, keeping previous endpoints: %v", err)
		return
	}
	eps, err := endpoint.BuildAll(cfg)
	if err != nil {
		mlog.Error("config reload failed, keeping previous endpoints: %v", err)
		return
	}
	if cfg.Server.Address != address {
		mlog.Warn("server.address changed to %s; restart to apply", cfg.Server.Address)
	}
	srv.SetEndpoints(eps)
	mlog.Info("config reloaded: %d endpoint(s)", len(eps))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openAuditLog opens path for audit logging. An empty path disables it.
func openAuditLog(path string) (*audit.Logger, io.Closer, error) {
	if path == "" {
		return nil, nopCloser{}, nil
	}
	f, err := mlog.OpenLogFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}
	mlog.Info("audit logging enabled: %s", path)
	return audit.NewLogger(f), f, nil
}
