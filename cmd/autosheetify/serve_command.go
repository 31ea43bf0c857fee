package main

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"autosheetify/internal/api"
	"autosheetify/internal/library"
	"autosheetify/internal/logging"
	"autosheetify/internal/orchestrator"
	"autosheetify/internal/transcribe"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP bridge for a browser front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.log()
			gin.SetMode(gin.ReleaseMode)

			inst, err := transcribe.ParseInstrument(cfg.Transcription.DefaultInstrument)
			if err != nil {
				return err
			}
			gate := ctx.gate()
			machine := orchestrator.New(gate, ctx.transcribeClient(),
				orchestrator.WithLogger(logger),
				orchestrator.WithInstrument(inst),
			)

			opts := []api.Option{
				api.WithLogger(logger),
				api.WithToken(cfg.Server.Token),
				api.WithUploadDir(filepath.Join(cfg.Paths.DataDir, "uploads")),
			}
			if cfg.Library.Enabled {
				store, err := library.Open(cfg)
				if err != nil {
					return fmt.Errorf("open library: %w", err)
				}
				defer store.Close()
				opts = append(opts, api.WithLibrary(store))
			}

			address := strings.TrimSpace(bind)
			if address == "" {
				address = cfg.Server.Bind
			}
			ln, err := net.Listen("tcp", address)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", address, err)
			}
			if cfg.Server.Token == "" && !isLoopback(ln.Addr()) {
				logging.WarnWithContext(logger, "http bridge exposed without a token", "bridge_unauthenticated",
					logging.String("addr", ln.Addr().String()),
					logging.String(logging.FieldErrorHint, "set [server] token or bind to 127.0.0.1"),
				)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl-C to stop)\n", ln.Addr())

			return api.NewServer(machine, gate, opts...).Serve(cmd.Context(), ln)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default server.bind)")
	return cmd
}

func isLoopback(addr net.Addr) bool {
	tcp, ok := addr.(*net.TCPAddr)
	return ok && tcp.IP.IsLoopback()
}
