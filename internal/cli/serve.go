package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mlopsaudit/internal/engine"
	"mlopsaudit/internal/flags"
	"mlopsaudit/internal/server"
)

var serveAllowLocal bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scan and audit over HTTP",
	Long: `Serve the scan and audit pipeline over HTTP (HTTP/1.1 and cleartext HTTP/2).

Endpoints:
	GET  /health  {"status":"healthy"}
	POST /scan    {"repo_url": "...", "branch": "..."}
	POST /audit   {"repo_url": "...", "branch": "...", "strategy": "graded|weighted"}

Each request gets its own temporary workspace. Invalid input and unreachable
repositories answer 400; other failures answer 500 without details. Local
paths are refused unless --allow-local is set.

The server stops gracefully on SIGINT or SIGTERM.

Examples:
	mlopsaudit serve --addr :8000
	mlopsaudit serve --store postgres --dsn postgres://audit@localhost/audit
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var log io.Writer = io.Discard
		if cfg.Runtime.Verbose {
			log = cmd.ErrOrStderr()
		}
		eng, err := engine.FromConfig(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer eng.Close()

		srv := server.New(eng, server.Options{
			Addr:            cfg.Server.Addr,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			AllowLocal:      serveAllowLocal,
		})
		return srv.Run(ctx)
	},
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&cfg.Server.Addr, flags.FlagAddr, cfg.Server.Addr, "Listen address")
	serveCmd.Flags().DurationVar(&cfg.Server.ShutdownTimeout, flags.FlagShutdownTimeout, cfg.Server.ShutdownTimeout, "Graceful shutdown timeout")
	serveCmd.Flags().BoolVar(&serveAllowLocal, flags.FlagAllowLocal, false, "Accept local directory paths in requests")
	serveCmd.Flags().StringSliceVar(&cfg.Scan.Ignore, flags.FlagIgnore, cfg.Scan.Ignore, "Directory names to skip while scanning")
	addAuditFlags(serveCmd)
	addStoreFlags(serveCmd)
}
