package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Messages holds the human-readable status texts reported to players
type Messages struct {
	Welcome         string `json:"welcome"`
	ShipPlaced      string `json:"ship_placed"`
	FleetReady      string `json:"fleet_ready"`
	OffGrid         string `json:"off_grid"`
	Overlap         string `json:"overlap"`
	FleetFull       string `json:"fleet_full"`
	NotPlacement    string `json:"not_placement"`
	FleetIncomplete string `json:"fleet_incomplete"`
	BattleStarted   string `json:"battle_started"`
	AlreadyStarted  string `json:"already_started"`
	NotPlaying      string `json:"not_playing"`
	Hit             string `json:"hit"`
	Sunk            string `json:"sunk"`
	Miss            string `json:"miss"`
	BotHit          string `json:"bot_hit"`
	BotSunk         string `json:"bot_sunk"`
	BotMiss         string `json:"bot_miss"`
	AlreadyShot     string `json:"already_shot"`
	OffBoard        string `json:"off_board"`
	Victory         string `json:"victory"`
	Defeat          string `json:"defeat"`
	Revealed        string `json:"revealed"`
}

// GameConfig describes a fleet and its messages. The grid size is fixed.
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fleet       []int    `json:"fleet"`
	Messages    Messages `json:"messages"`
}

// TotalShipCells returns the sum of the fleet's ship lengths
func (c *GameConfig) TotalShipCells() int {
	total := 0
	for _, l := range c.Fleet {
		total += l
	}
	return total
}

// DefaultMessages returns the built-in English status texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:         "Place your ships. Choose a cell and an orientation.",
		ShipPlaced:      "Ship placed.",
		FleetReady:      "All ships placed. Start the battle when ready.",
		OffGrid:         "The ship does not fit on the grid there.",
		Overlap:         "That position overlaps another ship.",
		FleetFull:       "All your ships are already placed.",
		NotPlacement:    "Ships can only be placed during setup.",
		FleetIncomplete: "Place all your ships before starting the battle.",
		BattleStarted:   "The battle begins. Fire at the enemy grid.",
		AlreadyStarted:  "The battle has already started or finished.",
		NotPlaying:      "The battle is not in progress.",
		Hit:             "Hit.",
		Sunk:            "Hit and sunk!",
		Miss:            "Miss.",
		BotHit:          "The bot hit your ship.",
		BotSunk:         "The bot sank one of your ships!",
		BotMiss:         "The bot missed.",
		AlreadyShot:     "You already fired there.",
		OffBoard:        "That cell is off the board.",
		Victory:         "You win! Every enemy ship has been sunk.",
		Defeat:          "The bot sank all your ships. You lose.",
		Revealed:        "Boards revealed.",
	}
}

// DefaultConfig returns the classic fleet of lengths 3, 2 and 4
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic",
		Description: "Three ships of lengths 3, 2 and 4 on a 6x6 grid",
		Fleet:       []int{3, 2, 4},
		Messages:    DefaultMessages(),
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if len(config.Fleet) == 0 {
		return fmt.Errorf("config validation: fleet must contain at least one ship")
	}
	if len(config.Fleet) > GridSize {
		return fmt.Errorf("config validation: fleet may contain at most %d ships, got %d", GridSize, len(config.Fleet))
	}
	for i, length := range config.Fleet {
		if length < MinShipLength || length > MaxShipLength {
			return fmt.Errorf("config validation: ship %d length must be between %d and %d, got %d",
				i+1, MinShipLength, MaxShipLength, length)
		}
	}
	// Each ship fits in its own row, so any fleet of at most GridSize ships is placeable
	if total := config.TotalShipCells(); total > GridSize*GridSize {
		return fmt.Errorf("config validation: fleet covers %d cells but the grid only has %d", total, GridSize*GridSize)
	}

	required := map[string]string{
		"welcome":      config.Messages.Welcome,
		"hit":          config.Messages.Hit,
		"sunk":         config.Messages.Sunk,
		"miss":         config.Messages.Miss,
		"already_shot": config.Messages.AlreadyShot,
		"victory":      config.Messages.Victory,
		"defeat":       config.Messages.Defeat,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("config validation: messages.%s is required", key)
		}
	}

	return nil
}

// withDefaults fills empty optional messages from DefaultMessages
func (c *GameConfig) withDefaults() *GameConfig {
	out := *c
	out.Fleet = append([]int(nil), c.Fleet...)
	def := DefaultMessages()
	m := &out.Messages
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&m.Welcome, def.Welcome)
	fill(&m.ShipPlaced, def.ShipPlaced)
	fill(&m.FleetReady, def.FleetReady)
	fill(&m.OffGrid, def.OffGrid)
	fill(&m.Overlap, def.Overlap)
	fill(&m.FleetFull, def.FleetFull)
	fill(&m.NotPlacement, def.NotPlacement)
	fill(&m.FleetIncomplete, def.FleetIncomplete)
	fill(&m.BattleStarted, def.BattleStarted)
	fill(&m.AlreadyStarted, def.AlreadyStarted)
	fill(&m.NotPlaying, def.NotPlaying)
	fill(&m.Hit, def.Hit)
	fill(&m.Sunk, def.Sunk)
	fill(&m.Miss, def.Miss)
	fill(&m.BotHit, def.BotHit)
	fill(&m.BotSunk, def.BotSunk)
	fill(&m.BotMiss, def.BotMiss)
	fill(&m.AlreadyShot, def.AlreadyShot)
	fill(&m.OffBoard, def.OffBoard)
	fill(&m.Victory, def.Victory)
	fill(&m.Defeat, def.Defeat)
	fill(&m.Revealed, def.Revealed)
	return &out
}

// LoadGameConfig loads and validates a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath.Base(filename), err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig decodes and validates a JSON game configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ConfigID returns the identifier used for a config file name
func ConfigID(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), ".json")
}
