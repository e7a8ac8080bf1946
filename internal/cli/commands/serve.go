package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdgml/internal/cli/config"
	"github.com/leapstack-labs/leapdgml/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Long: `Start an HTTP API that converts posted debug views.

Endpoints:
  POST /api/dgml?context=Name    debug view in, DGML document out
  POST /api/graph?context=Name   debug view in, JSON node and link markup out
  GET  /api/history?limit=N      recorded conversions
  GET  /healthz                  liveness check

Press Ctrl+C to stop; in-flight requests are given five seconds to finish.`,
		Example: `  # Serve on the default address
  leapdgml serve

  # Serve on all interfaces
  leapdgml serve --addr :8765

  # Convert with curl
  curl --data-binary @SamuraiContext.txt 'http://127.0.0.1:8765/api/dgml?context=SamuraiContext'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().Int64("max-body-bytes", config.DefaultMaxBodyBytes, "Maximum request body size")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(server.Config{
		Engine:       cmdCtx.Engine,
		Addr:         cmdCtx.Cfg.Serve.Addr,
		MaxBodyBytes: cmdCtx.Cfg.Serve.MaxBodyBytes,
		Logger:       cmdCtx.Logger,
	})

	r := cmdCtx.Renderer
	r.Printf("Serving on http://%s\n", cmdCtx.Cfg.Serve.Addr)
	r.Println(r.Muted("Press Ctrl+C to stop"))

	return srv.Serve(cmd.Context())
}
