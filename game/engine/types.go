package engine

import "errors"

// CellState represents the state of a single grid cell
type CellState string

const (
	Empty CellState = "."
	Ship  CellState = "S"
	Hit   CellState = "X"
	Miss  CellState = "o"
)

// Outcome is the result of resolving a shot
type Outcome string

const (
	OutcomeHit  Outcome = "hit"
	OutcomeSunk Outcome = "sunk"
	OutcomeMiss Outcome = "miss"
)

// Phase governs which operations are valid
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
)

// Side identifies the owner of a board
type Side string

const (
	SidePlayer Side = "player"
	SideBot    Side = "bot"
)

const (
	// GridSize is the fixed board dimension
	GridSize = 6

	MinShipLength = 2
	MaxShipLength = GridSize

	// Bounded retries for random fleet placement before giving up
	MaxPlacementRestarts = 64

	WebSocketBufferSize = 256
)

var (
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrOverlap          = errors.New("ship overlaps an existing ship")
	ErrOutOfFleet       = errors.New("all ships already placed")
	ErrAlreadyShot      = errors.New("coordinate already shot")
	ErrNoTargets        = errors.New("no unshot coordinates remain")

	// ErrInvariant marks programming errors that valid input can never reach
	ErrInvariant = errors.New("engine invariant violated")
)

// Shot is one resolved entry in a board's shot history
type Shot struct {
	Coord   Coord   `json:"coord"`
	Label   string  `json:"label"`
	Outcome Outcome `json:"outcome"`
	Number  int     `json:"number"`
}

// ShotReport describes a resolved shot for the caller
type ShotReport struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Label   string  `json:"label"`
	Outcome Outcome `json:"outcome"`
	Hit     bool    `json:"hit"`
	Sunk    bool    `json:"sunk"`
	Message string  `json:"message"`
}

// GameState is the serializable snapshot returned to callers
type GameState struct {
	GameID      string     `json:"game_id"`
	ConfigName  string     `json:"config_name"`
	Phase       Phase      `json:"phase"`
	PlayerBoard [][]string `json:"player_board"`
	BotBoard    [][]string `json:"bot_board"`
	ShipSizes   []int      `json:"ship_sizes"`
	NextShipIdx int        `json:"next_ship_idx"`

	PlayerShipsRemaining int    `json:"player_ships_remaining"`
	BotShipsRemaining    int    `json:"bot_ships_remaining"`
	Winner               Side   `json:"winner,omitempty"`
	Message              string `json:"message"`

	PlayerShots int `json:"player_shots"`
	BotShots    int `json:"bot_shots"`

	// Display helpers for presentation layers
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
}

// ActionResult is returned by every mutating operation. OK=false means the
// action was rejected and the game state is unchanged.
type ActionResult struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	State   *GameState  `json:"state"`
	Shot    *ShotReport `json:"shot,omitempty"`
	BotShot *ShotReport `json:"bot_shot,omitempty"`
	Done    bool        `json:"done,omitempty"`
	BotDone bool        `json:"bot_done,omitempty"`
}

// RevealResult shows both boards fully
type RevealResult struct {
	PlayerBoard [][]string `json:"player_board"`
	BotBoard    [][]string `json:"bot_board"`
	Message     string     `json:"message"`
}
