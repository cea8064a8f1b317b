package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/chatapi"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/server"
	"github.com/spektr-org/vizchat/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the conversation and start a new one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, sessions := newChat()
		st, err := sessions.Reset(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "client %s\nchat   %s\n", st.ClientID, st.ChatID)
		return nil
	},
}

var serveFlags struct {
	addr      string
	cacheSize int
	offline   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart preview API and live chat websocket",
	Long: `Endpoints:
  POST /api/render?format=png|svg|json   render a descriptor from the request body
  GET  /api/history                      current conversation with resolved charts
  GET  /ws                               live chat relay`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (default $VIZCHAT_ADDR or :8090)")
	serveCmd.Flags().IntVar(&serveFlags.cacheSize, "cache", 256, "rendered charts kept in memory")
	serveCmd.Flags().BoolVar(&serveFlags.offline, "offline", false, "serve /api/render only, without a chat backend")

	paletteCmd.Flags().IntVarP(&paletteCount, "count", "n", 12, "number of colors")
}

func runServe(cmd *cobra.Command, _ []string) error {
	var (
		api      chatapi.API
		sessions *session.Manager
	)
	if !serveFlags.offline {
		api, sessions = newChat()
	}
	srv, err := server.New(server.Config{
		Addr:          firstNonEmpty(serveFlags.addr, cfg.Addr),
		CacheSize:     serveFlags.cacheSize,
		Render:        renderOptions(),
		EngineOptions: engineOptions(),
	}, api, sessions, logger.Named("server"))
	if err != nil {
		return err
	}
	logger.Info("starting preview server", zap.String("backend", cfg.APIBaseURL), zap.Bool("offline", serveFlags.offline))
	return srv.Run(cmd.Context())
}

var paletteCount int

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Print the chart colors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var b strings.Builder
		for i, c := range engine.Palette(paletteCount, engineOptions()...) {
			fmt.Fprintf(&b, "%3d %s %s\n", i+1, swatch(c), c)
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
		return err
	},
}
