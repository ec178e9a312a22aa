// Command battleship runs the Battleship game server and its tooling.
//
// Subcommands:
//  1. "serve" runs the HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "validate" checks fleet configuration files
//  4. "simulate" measures how many shots the bot needs to sink a fleet
//
// Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleship/game/config"
	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
	"github.com/wricardo/battleship/game/session"
	"github.com/wricardo/battleship/game/simulate"
	"github.com/wricardo/battleship/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Battleship Server"
)

// Session retention defaults
const (
	cleanupInterval   = time.Hour
	defaultSessionTTL = 24 * time.Hour
)

func main() {
	// .env feeds the flag environment sources, so it must load before parsing
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("battleship failed")
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "battleship",
		Usage:   "6x6 Battleship against a bot over REST, WebSocket and MCP",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing fleet configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "pretty",
				Usage:   "Human readable console logs instead of JSON",
				Sources: cli.EnvVars("LOG_PRETTY"),
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			validateCommand(),
			simulateCommand(),
		},
		DefaultCommand: "serve",
	}
}

// setupLogging configures the global logger from the root flags
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cmd.String("log-level")))
	if err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	zerolog.SetGlobalLevel(level)

	if cmd.Bool("pretty") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return ctx, nil
}

// services bundles everything a server mode needs
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires the config and session managers into the game service
func initializeServices(configDir string, opts ...engine.Option) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(opts...)

	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// engineOptions turns the --seed flag into engine options
func engineOptions(seed uint64) []engine.Option {
	if seed == 0 {
		return nil
	}
	return []engine.Option{engine.WithSeed(seed)}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate fleet configuration files",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = cmd.String("config-dir")
			}

			results, err := validate.Dir(dir)
			if err != nil {
				return err
			}

			report, allValid := validate.Report(results)
			fmt.Fprint(cmd.Root().Writer, report)
			if !allValid {
				return errors.New("some configurations are invalid")
			}
			return nil
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Measure how many shots the bot needs to sink a random fleet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Config ID to simulate (defaults to the server default)"},
			&cli.IntFlag{Name: "games", Value: 1000, Usage: "Number of games to play"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first game"},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "Games played in parallel"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			gameConfig := configs.GetDefault()
			if name := cmd.String("config"); name != "" {
				if gameConfig, err = configs.LoadConfig(name); err != nil {
					return err
				}
			}

			report, err := simulate.Run(ctx, gameConfig, simulate.Options{
				Games:   int(cmd.Int("games")),
				Seed:    uint64(cmd.Int("seed")),
				Workers: int(cmd.Int("workers")),
			})
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			fmt.Fprintf(w, "Config: %s (fleet %v)\n", report.Config, gameConfig.Fleet)
			fmt.Fprintf(w, "Games: %d\n", report.Games)
			fmt.Fprintf(w, "Shots: min %d, max %d, avg %.2f\n", report.MinShots, report.MaxShots, report.AvgShots)
			for _, shots := range report.Buckets() {
				count := report.Histogram[shots]
				bar := strings.Repeat("#", max(1, count*50/report.Games))
				fmt.Fprintf(w, "%3d | %-50s %d\n", shots, bar, count)
			}
			return nil
		},
	}
}
