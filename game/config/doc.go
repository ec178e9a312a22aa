// Package config provides fleet configuration management for the Battleship server.
//
// Configuration Format:
//
// Each configuration is a JSON file in the configs directory. The file name
// without ".json" is the config ID used when creating sessions. A file holds
// a display name, a description, the fleet as a list of ship lengths in
// placement order, and optional status messages:
//
//	{
//	  "name": "Classic",
//	  "description": "Three ships of lengths 3, 2 and 4",
//	  "fleet": [3, 2, 4],
//	  "messages": {"hit": "Hit.", "sunk": "Hit and sunk!", ...}
//	}
//
// The grid is always 6x6. Ship lengths must be between 2 and 6 and a fleet
// holds at most 6 ships.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	duel, err := manager.LoadConfig("duel")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic.json when present, otherwise the first valid file,
// otherwise the built-in classic fleet.
package config
