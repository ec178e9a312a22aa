package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Game is a single match between the player and the bot. It is created fresh
// per match and replaced wholesale on reset.
type Game struct {
	id       string
	config   *GameConfig
	player   *Board
	bot      *Board
	fleet    *Fleet
	phase    Phase
	winner   Side
	message  string
	strategy Strategy
	rng      *rand.Rand
}

// NewGame creates a match in the placement phase with two empty boards
func NewGame(config *GameConfig, strategy Strategy, rng *rand.Rand) *Game {
	return &Game{
		id:       uuid.NewString(),
		config:   config,
		player:   NewBoard(GridSize),
		bot:      NewBoard(GridSize),
		fleet:    NewFleet(config.Fleet),
		phase:    PhasePlacement,
		message:  config.Messages.Welcome,
		strategy: strategy,
		rng:      rng,
	}
}

// ID returns the match identifier
func (g *Game) ID() string { return g.id }

// Phase returns the current phase
func (g *Game) Phase() Phase { return g.phase }

// Winner returns the winning side once the game is finished
func (g *Game) Winner() Side { return g.winner }

// PlacePlayerShip places the next ship of the player's fleet
func (g *Game) PlacePlayerShip(origin Coord, horizontal bool) *ActionResult {
	msgs := g.config.Messages
	if g.phase != PhasePlacement {
		return g.reject(msgs.NotPlacement)
	}

	next, complete, err := g.fleet.PlaceNext(g.player, origin, horizontal)
	if err != nil {
		switch {
		case errors.Is(err, ErrOutOfFleet):
			return g.reject(msgs.FleetFull)
		case errors.Is(err, ErrOutOfBounds):
			return g.reject(msgs.OffGrid)
		case errors.Is(err, ErrOverlap):
			return g.reject(msgs.Overlap)
		}
		return g.reject(err.Error())
	}

	g.message = fmt.Sprintf("%s (%d/%d)", msgs.ShipPlaced, next, len(g.config.Fleet))
	if complete {
		g.message = msgs.FleetReady
	}
	return g.accept()
}

// AutoPlacePlayerFleet places the player's remaining ships at random legal positions
func (g *Game) AutoPlacePlayerFleet() (*ActionResult, error) {
	msgs := g.config.Messages
	if g.phase != PhasePlacement {
		return g.reject(msgs.NotPlacement), nil
	}
	if g.fleet.Complete() {
		return g.reject(msgs.FleetFull), nil
	}

	board, err := g.fleet.AutoPlace(g.player, g.rng)
	if err != nil {
		return nil, err
	}
	g.player = board
	g.message = msgs.FleetReady
	return g.accept(), nil
}

// StartBattle moves from placement to playing. The bot's fleet is placed here
// through the same placement rules the player uses.
func (g *Game) StartBattle() (*ActionResult, error) {
	msgs := g.config.Messages
	if g.phase != PhasePlacement {
		return g.reject(msgs.AlreadyStarted), nil
	}
	if !g.fleet.Complete() {
		return g.reject(msgs.FleetIncomplete), nil
	}

	botBoard, err := NewFleet(g.config.Fleet).AutoPlace(NewBoard(GridSize), g.rng)
	if err != nil {
		return nil, err
	}

	g.bot = botBoard
	g.phase = PhasePlaying
	g.message = msgs.BattleStarted
	return g.accept(), nil
}

// PlayerFire resolves the player's shot on the bot board and, unless that
// shot ends the game, one bot shot on the player board.
func (g *Game) PlayerFire(target Coord) (*ActionResult, error) {
	msgs := g.config.Messages
	if g.phase != PhasePlaying {
		return g.reject(msgs.NotPlaying), nil
	}
	if !g.bot.InBounds(target) {
		return g.reject(shotErrorMessage(ErrOutOfBounds, target, msgs)), nil
	}
	if g.bot.AlreadyShot(target) {
		return g.reject(shotErrorMessage(ErrAlreadyShot, target, msgs)), nil
	}

	// The bot's reply depends only on the player board, so it is chosen before
	// anything is mutated.
	botTarget, err := g.strategy.NextShot(g.player.Observe())
	if err != nil {
		return nil, err
	}

	shot, err := ResolveShot(g.bot, target, msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: validated shot rejected: %v", ErrInvariant, err)
	}

	result := &ActionResult{OK: true, Message: shot.Message, Shot: shot}
	if g.bot.Defeated() {
		g.finish(SidePlayer, msgs.Victory)
		result.Done = true
		result.Message = msgs.Victory
		result.State = g.Snapshot(false)
		return result, nil
	}

	botShot, err := ResolveShot(g.player, botTarget, botMessages(msgs))
	if err != nil {
		return nil, fmt.Errorf("%w: bot chose %s: %v", ErrInvariant, botTarget, err)
	}
	result.BotShot = botShot

	g.message = fmt.Sprintf("%s: %s Bot fired at %s: %s", shot.Label, shot.Message, botShot.Label, botShot.Message)
	if g.player.Defeated() {
		g.finish(SideBot, msgs.Defeat)
		result.BotDone = true
		result.Message = msgs.Defeat
	}

	result.State = g.Snapshot(false)
	return result, nil
}

// Snapshot builds the serializable view of the game. The bot's ships stay
// hidden unless reveal is set or the game is finished.
func (g *Game) Snapshot(reveal bool) *GameState {
	revealBot := reveal || g.phase == PhaseFinished
	return &GameState{
		GameID:               g.id,
		ConfigName:           g.config.Name,
		Phase:                g.phase,
		PlayerBoard:          g.player.Snapshot(true),
		BotBoard:             g.bot.Snapshot(revealBot),
		ShipSizes:            g.fleet.Sizes(),
		NextShipIdx:          g.fleet.Next(),
		PlayerShipsRemaining: g.player.Remaining(),
		BotShipsRemaining:    g.bot.Remaining(),
		Winner:               g.winner,
		Message:              g.message,
		PlayerShots:          len(g.bot.shots),
		BotShots:             len(g.player.shots),
		RowLabels:            RowLabels(GridSize),
		ColLabels:            ColLabels(GridSize),
	}
}

// Reveal shows both boards fully without changing the game
func (g *Game) Reveal() *RevealResult {
	return &RevealResult{
		PlayerBoard: g.player.Snapshot(true),
		BotBoard:    g.bot.Snapshot(true),
		Message:     g.config.Messages.Revealed,
	}
}

// Shots returns the shots fired by side, in order
func (g *Game) Shots(by Side) []Shot {
	if by == SideBot {
		return g.player.Shots()
	}
	return g.bot.Shots()
}

func (g *Game) finish(winner Side, message string) {
	g.phase = PhaseFinished
	g.winner = winner
	g.message = message
}

func (g *Game) accept() *ActionResult {
	return &ActionResult{OK: true, Message: g.message, State: g.Snapshot(false)}
}

// reject reports a recoverable error without touching the game
func (g *Game) reject(message string) *ActionResult {
	return &ActionResult{OK: false, Message: message, State: g.Snapshot(false)}
}

// botMessages rewords shot outcomes from the player's point of view
func botMessages(msgs Messages) Messages {
	out := msgs
	out.Hit = msgs.BotHit
	out.Sunk = msgs.BotSunk
	out.Miss = msgs.BotMiss
	return out
}
