package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/battleship/api"
	"github.com/wricardo/battleship/transport/mcp"
	"github.com/wricardo/battleship/transport/websocket"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.IntFlag{Name: "seed", Usage: "Seed bot randomness for reproducible matches (0 = random)", Sources: cli.EnvVars("GAME_SEED")},
			&cli.DurationFlag{Name: "session-ttl", Value: defaultSessionTTL, Usage: "Drop sessions idle for longer than this", Sources: cli.EnvVars("SESSION_TTL")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: runHTTPServer,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run an MCP stdio server backed by an external or internal HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "External API to reuse when reachable", Sources: cli.EnvVars("BATTLESHIP_API_URL")},
			&cli.IntFlag{Name: "seed", Usage: "Seed bot randomness for the internal server (0 = random)", Sources: cli.EnvVars("GAME_SEED")},
		},
		Action: runStdioMCP,
	}
}

// newRootHandler mounts the API at / and the MCP bridge at /mcp
func newRootHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if response == nil {
			// notifications have no reply
			w.WriteHeader(http.StatusAccepted)
			return
		}
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mux
}

// runHTTPServer serves the API until the command context is cancelled. When
// ngrok is enabled the same handler is also served through a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	svcs, err := initializeServices(cmd.String("config-dir"), engineOptions(uint64(cmd.Int("seed")))...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go svcs.sessions.RunCleanup(ctx, cleanupInterval, cmd.Duration("session-ttl"))

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	handler := newRootHandler(api.NewServer(svcs.game, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("version", Version).Str("addr", addr).Msgf("starting %s", AppName)

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("rest", fmt.Sprintf("http://%s/api", addr)).
			Str("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, handler, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"))
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is done
func serveNgrok(ctx context.Context, handler http.Handler, authToken, domain string) {
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info().Str("domain", domain).Msg("using custom ngrok domain")
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().
		Str("url", url).
		Str("rest", url+"/api").
		Str("websocket", url+"/ws?session=<session_id>").
		Str("mcp", url+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// apiReachable reports whether a Battleship API answers its health check
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves a private API on a random loopback port and returns
// its base URL. The server stops when ctx is done.
func startInternalAPI(ctx context.Context, configDir string, seed uint64) (string, error) {
	svcs, err := initializeServices(configDir, engineOptions(seed)...)
	if err != nil {
		return "", err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go svcs.sessions.RunCleanup(ctx, cleanupInterval, defaultSessionTTL)

	httpServer := &http.Server{Handler: api.NewServer(svcs.game, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("internal HTTP server error")
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	return "http://" + listener.Addr().String(), nil
}

// runStdioMCP serves MCP over stdio. It reuses an external API when one
// answers at --api-url, otherwise it starts an internal one.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")
	log.Info().Str("url", baseURL).Msg("checking for external API server")

	if apiReachable(ctx, baseURL) {
		log.Info().Str("url", baseURL).Msg("MCP stdio server ready (using external HTTP server)")
	} else {
		internal, err := startInternalAPI(ctx, cmd.String("config-dir"), uint64(cmd.Int("seed")))
		if err != nil {
			return err
		}
		baseURL = internal
		log.Info().Str("url", baseURL).Msg("MCP stdio server ready (using internal HTTP server)")
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
