package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
)

// DefaultConfigName is loaded as the default when present
const DefaultConfigName = "classic"

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles fleet configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}
	m.defaultConfig = m.resolveDefault()
	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have loaded it meanwhile
	if cached, exists := m.configs[name]; exists {
		return cached, nil
	}
	m.configs[name] = config
	return config, nil
}

// ReloadConfig drops the cached copy of a configuration and reads it again
func (m *Manager) ReloadConfig(name string) error {
	name = strings.TrimSuffix(name, ".json")
	m.mu.Lock()
	delete(m.configs, name)
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

// ListConfigs returns information about all valid configurations, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := engine.ConfigID(entry.Name())
		config, err := m.LoadConfig(id)
		if err != nil {
			log.Debug().Err(err).Str("file", entry.Name()).Msg("skipping invalid config")
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Fleet:       append([]int(nil), config.Fleet...),
			ShipCells:   config.TotalShipCells(),
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache clears every cached configuration and re-resolves the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	def := m.resolveDefault()

	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
}

// SaveConfig validates a configuration and writes it to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	name = strings.TrimSuffix(name, ".json")
	if err := checkName(name); err != nil {
		return err
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()
	return nil
}

// resolveDefault picks classic.json, then the first valid config on disk,
// then the built-in classic fleet
func (m *Manager) resolveDefault() *engine.GameConfig {
	if config, err := m.LoadConfig(DefaultConfigName); err == nil {
		return config
	}

	configs, err := m.ListConfigs()
	if err == nil && len(configs) > 0 {
		if config, err := m.LoadConfig(configs[0].ConfigID); err == nil {
			return config
		}
	}

	log.Debug().Str("dir", m.configDir).Msg("no usable config on disk, using built-in classic fleet")
	return engine.DefaultConfig()
}

func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	return config, nil
}

// checkName keeps config names inside the config directory
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	return nil
}
