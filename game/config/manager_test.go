package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/battleship/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("classic is the default", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Name = "Classic From Disk"
		writeConfigFile(t, dir, "classic", classic)
		writeConfigFile(t, dir, "another", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic From Disk" {
			t.Errorf("Expected classic.json as default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("first valid config without classic", func(t *testing.T) {
		dir := t.TempDir()
		duel := createValidConfig()
		duel.Name = "Duel"
		duel.Fleet = []int{3, 2}
		writeConfigFile(t, dir, "duel", duel)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatal(err)
		}
		if manager.GetDefault().Name != "Duel" {
			t.Errorf("Expected duel as default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in fleet", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}
		def := manager.GetDefault()
		if def == nil || def.TotalShipCells() != 9 {
			t.Errorf("Expected built-in classic fleet, got %+v", def)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	duel := createValidConfig()
	duel.Name = "Duel"
	duel.Fleet = []int{3, 2}
	writeConfigFile(t, dir, "duel", duel)

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	bad := createValidConfig()
	bad.Fleet = []int{1, 2}
	writeConfigFile(t, dir, "bad", bad)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("duel")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Duel" || len(config.Fleet) != 2 {
			t.Errorf("Unexpected config %+v", config)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		if _, err := manager.LoadConfig("duel.json"); err != nil {
			t.Errorf("Failed to load config with extension: %v", err)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("duel")
		second, _ := manager.LoadConfig("duel")
		if first != second {
			t.Error("Expected cached config to be returned")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		if _, err := manager.LoadConfig("missing"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		if _, err := manager.LoadConfig("bad"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		if _, err := manager.LoadConfig("broken"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		if _, err := manager.LoadConfig("../classic"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	duel := createValidConfig()
	duel.Fleet = []int{3, 2}
	writeConfigFile(t, dir, "duel", duel)
	bad := createValidConfig()
	bad.Fleet = nil
	writeConfigFile(t, dir, "bad", bad)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.json"), 0755)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "classic" || configs[1].ConfigID != "duel" {
		t.Errorf("Expected sorted IDs classic, duel; got %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[1].ShipCells != 5 || configs[1].Filename != "duel.json" {
		t.Errorf("Unexpected duel info %+v", configs[1])
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig()
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if len(loaded.Fleet) != 3 {
		t.Fatalf("Expected 3 ships, got %d", len(loaded.Fleet))
	}

	config.Fleet = []int{4, 4}
	writeConfigFile(t, dir, "changeable", config)

	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	reloaded, _ := manager.LoadConfig("changeable")
	if len(reloaded.Fleet) != 2 {
		t.Errorf("Expected reloaded fleet of 2 ships, got %v", reloaded.Fleet)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	classic := createValidConfig()
	classic.Name = "Added Later"
	writeConfigFile(t, dir, "classic", classic)

	manager.RefreshCache()
	if manager.GetDefault().Name != "Added Later" {
		t.Errorf("Expected refreshed default, got %s", manager.GetDefault().Name)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid config", func(t *testing.T) {
		config := createValidConfig()
		config.Fleet = []int{5, 4}
		if err := manager.SaveConfig("big", config); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "big.json")); err != nil {
			t.Errorf("Expected file on disk: %v", err)
		}

		loaded, err := engine.LoadGameConfig(filepath.Join(dir, "big.json"))
		if err != nil {
			t.Fatal(err)
		}
		if loaded.TotalShipCells() != 9 {
			t.Errorf("Expected 9 ship cells, got %d", loaded.TotalShipCells())
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		config := createValidConfig()
		config.Fleet = []int{7}
		if err := manager.SaveConfig("huge", config); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "huge.json")); !os.IsNotExist(err) {
			t.Error("Invalid config must not be written")
		}
	})

	t.Run("bad name", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	duel := createValidConfig()
	duel.Name = "Duel"
	duel.Fleet = []int{3, 2}
	writeConfigFile(t, dir, "duel", duel)

	manager, _ := NewManager(dir)
	if err := manager.SetDefault("duel"); err != nil {
		t.Fatal(err)
	}
	if manager.GetDefault().Name != "Duel" {
		t.Errorf("Expected Duel default, got %s", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); err == nil {
		t.Error("Expected error for unknown default")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	manager, _ := NewManager(dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("classic"); err != nil {
				t.Errorf("LoadConfig failed: %v", err)
			}
			if _, err := manager.ListConfigs(); err != nil {
				t.Errorf("ListConfigs failed: %v", err)
			}
			manager.GetDefault()
		}()
	}
	wg.Wait()
}
