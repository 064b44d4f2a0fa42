package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultHubAddress = "127.0.0.1:8600"

const (
	defaultSearchDebounceMS  = 300
	defaultSearchMinQuery    = 2
	defaultSearchMaxResults  = 8
	defaultSearchMinScore    = 0.3
	defaultAutoSelectScore   = 0.98
	defaultDuplicateScore    = 0.995
	minConfigurableDebounce  = 50
	maxConfigurableDebounce  = 2000
	maxConfigurableResults   = 50
	defaultWizardResetMillis = 250
)

type Config struct {
	Hub     HubConfig     `toml:"hub"`
	Search  SearchConfig  `toml:"search"`
	Match   MatchConfig   `toml:"match"`
	Logging LoggingConfig `toml:"logging"`
}

type HubConfig struct {
	Address   string `toml:"address"`
	TokenPath string `toml:"token_path"`
}

type SearchConfig struct {
	DebounceMS     int     `toml:"debounce_ms"`
	MinQueryLength int     `toml:"min_query_length"`
	MaxResults     int     `toml:"max_results"`
	MinSimilarity  float64 `toml:"min_similarity"`
}

type MatchConfig struct {
	AutoSelectThreshold float64 `toml:"auto_select_threshold"`
	DuplicateThreshold  float64 `toml:"duplicate_threshold"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Hub: HubConfig{
			Address: defaultHubAddress,
		},
		Search: SearchConfig{
			DebounceMS:     defaultSearchDebounceMS,
			MinQueryLength: defaultSearchMinQuery,
			MaxResults:     defaultSearchMaxResults,
			MinSimilarity:  defaultSearchMinScore,
		},
		Match: MatchConfig{
			AutoSelectThreshold: defaultAutoSelectScore,
			DuplicateThreshold:  defaultDuplicateScore,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) HubAddress() string {
	addr := strings.TrimSpace(c.Hub.Address)
	if addr == "" {
		return defaultHubAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultHubAddress
	}
	return addr
}

func (c Config) HubBaseURL() string {
	return "http://" + c.HubAddress()
}

func (c Config) ResolveTokenPath() (string, error) {
	path := strings.TrimSpace(c.Hub.TokenPath)
	if path == "" {
		return TokenPath()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}

func (c Config) SearchDebounce() time.Duration {
	ms := c.Search.DebounceMS
	if ms < minConfigurableDebounce || ms > maxConfigurableDebounce {
		ms = defaultSearchDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (c Config) SearchMinQueryLength() int {
	if c.Search.MinQueryLength <= 0 {
		return defaultSearchMinQuery
	}
	return c.Search.MinQueryLength
}

func (c Config) SearchMaxResults() int {
	n := c.Search.MaxResults
	if n <= 0 || n > maxConfigurableResults {
		return defaultSearchMaxResults
	}
	return n
}

func (c Config) SearchMinSimilarity() float64 {
	score := c.Search.MinSimilarity
	if score < 0 || score >= 1 {
		return defaultSearchMinScore
	}
	return score
}

func (c Config) AutoSelectThreshold() float64 {
	score := c.Match.AutoSelectThreshold
	if score <= 0 || score > 1 {
		return defaultAutoSelectScore
	}
	return score
}

func (c Config) DuplicateThreshold() float64 {
	score := c.Match.DuplicateThreshold
	if score <= 0 || score > 1 {
		return defaultDuplicateScore
	}
	return score
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

// WizardResetDelay is how long a closed wizard session lingers before its
// state is discarded, leaving room for the exit animation.
func WizardResetDelay() time.Duration {
	return defaultWizardResetMillis * time.Millisecond
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
