// Package config provides configuration loading for gemview using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"gemview/browser"
	"gemview/fetcher"
	"gemview/input"
)

// Browser settings
type Browser struct {
	HomeURL      string `toml:"homeUrl"`
	HistoryLimit int    `toml:"historyLimit"` // 0 keeps every entry
}

// Gemini fetching settings
type Fetcher struct {
	Port           int `toml:"port"`
	TimeoutSeconds int `toml:"timeoutSeconds"`
	MaxBodyBytes   int `toml:"maxBodyBytes"`
	ChunkSize      int `toml:"chunkSize"`
}

// Display settings. Zero columns or rows means use the terminal size.
type Display struct {
	Columns           int `toml:"columns"`
	Rows              int `toml:"rows"`
	MessageHoldMillis int `toml:"messageHoldMillis"`
}

// Input settings
type Input struct {
	DebounceMillis int `toml:"debounceMillis"`
}

// Keybindings configuration. Each character of a binding is a key that
// triggers the action.
type Keybindings struct {
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Back   string `toml:"back"`
	Select string `toml:"select"`
	Quit   string `toml:"quit"`
}

// Log settings
type Log struct {
	Path  string `toml:"path"`
	Debug bool   `toml:"debug"`
}

// Config is the main configuration struct
type Config struct {
	Browser     Browser     `toml:"browser"`
	Fetcher     Fetcher     `toml:"fetcher"`
	Display     Display     `toml:"display"`
	Input       Input       `toml:"input"`
	Keybindings Keybindings `toml:"keybindings"`
	Log         Log         `toml:"log"`
}

// DefaultHomeURL is opened when no URL is given on the command line.
const DefaultHomeURL = "gemini://geminiprotocol.net/"

// Default returns the default configuration.
func Default() *Config {
	fo := fetcher.DefaultOptions()
	km := input.DefaultKeymap()
	return &Config{
		Browser: Browser{
			HomeURL: DefaultHomeURL,
		},
		Fetcher: Fetcher{
			Port:           fo.Port,
			TimeoutSeconds: int(fo.Timeout / time.Second),
			MaxBodyBytes:   fo.MaxBodyBytes,
			ChunkSize:      fo.ChunkSize,
		},
		Display: Display{
			MessageHoldMillis: 1000,
		},
		Input: Input{
			DebounceMillis: 200,
		},
		Keybindings: Keybindings{
			Up:     km.Up,
			Down:   km.Down,
			Back:   km.Back,
			Select: km.Select,
			Quit:   km.Quit,
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gemview"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	userCfg, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return merge(cfg, userCfg), nil
}

func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	mergeString(&result.Browser.HomeURL, user.Browser.HomeURL)
	mergeInt(&result.Browser.HistoryLimit, user.Browser.HistoryLimit)

	mergeInt(&result.Fetcher.Port, user.Fetcher.Port)
	mergeInt(&result.Fetcher.TimeoutSeconds, user.Fetcher.TimeoutSeconds)
	mergeInt(&result.Fetcher.MaxBodyBytes, user.Fetcher.MaxBodyBytes)
	mergeInt(&result.Fetcher.ChunkSize, user.Fetcher.ChunkSize)

	mergeInt(&result.Display.Columns, user.Display.Columns)
	mergeInt(&result.Display.Rows, user.Display.Rows)
	mergeInt(&result.Display.MessageHoldMillis, user.Display.MessageHoldMillis)

	mergeInt(&result.Input.DebounceMillis, user.Input.DebounceMillis)

	mergeString(&result.Keybindings.Up, user.Keybindings.Up)
	mergeString(&result.Keybindings.Down, user.Keybindings.Down)
	mergeString(&result.Keybindings.Back, user.Keybindings.Back)
	mergeString(&result.Keybindings.Select, user.Keybindings.Select)
	mergeString(&result.Keybindings.Quit, user.Keybindings.Quit)

	mergeString(&result.Log.Path, user.Log.Path)
	if user.Log.Debug {
		result.Log.Debug = true
	}

	return &result
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// FetcherOptions converts the [fetcher] section.
func (c *Config) FetcherOptions() fetcher.Options {
	return fetcher.Options{
		Port:         c.Fetcher.Port,
		Timeout:      time.Duration(c.Fetcher.TimeoutSeconds) * time.Second,
		MaxBodyBytes: c.Fetcher.MaxBodyBytes,
		ChunkSize:    c.Fetcher.ChunkSize,
	}
}

// Keymap converts the [keybindings] section.
func (c *Config) Keymap() input.Keymap {
	return input.Keymap{
		Up:     c.Keybindings.Up,
		Down:   c.Keybindings.Down,
		Back:   c.Keybindings.Back,
		Select: c.Keybindings.Select,
		Quit:   c.Keybindings.Quit,
	}
}

// Debounce is the pause after each recognised key press.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Input.DebounceMillis) * time.Millisecond
}

// BrowserOptions converts the browser and display sections for a viewport.
func (c *Config) BrowserOptions(vp browser.Viewport) browser.Options {
	return browser.Options{
		Viewport:     vp,
		HistoryLimit: c.Browser.HistoryLimit,
		MessageHold:  time.Duration(c.Display.MessageHoldMillis) * time.Millisecond,
	}
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# gemview configuration
# Save to ~/.config/gemview/config.toml and customize
# Only include settings you want to change from defaults

[browser]
homeUrl = "gemini://geminiprotocol.net/"
historyLimit = 0              # 0 keeps every visited page

[fetcher]
port = 1965
timeoutSeconds = 20
maxBodyBytes = 65536          # larger pages are refused
chunkSize = 512

[display]
columns = 0                   # 0 = terminal width
rows = 0                      # 0 = terminal height
messageHoldMillis = 1000      # how long errors stay on screen

[input]
debounceMillis = 200

# Each character is a key for the action. Arrow keys always work.
[keybindings]
up = "k"
down = "j"
back = "h\u007f"              # h, Backspace
select = "l\r"                # l, Enter
quit = "q\u0003"              # q, Ctrl-C

[log]
path = ""                     # empty = gemview.log in the temp directory
debug = false
`
}

// FormatError formats a config loading error for user display.
func FormatError(err error) string {
	return fmt.Sprintf("Configuration error:\n\n%s", err.Error())
}
