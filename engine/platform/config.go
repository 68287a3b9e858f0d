package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"

	"github.com/spaghettifunk/anywindow/engine/core"
)

const (
	DefaultTitle      = "anywindow"
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultClearColor = "black"
)

// WindowConfig describes the window a backend creates. The zero value is not
// useful; start from NewWindowConfig or LoadWindowConfig.
type WindowConfig struct {
	// The window title.
	Title string `toml:"title"`
	// Initial inner width in logical units.
	Width uint32 `toml:"width"`
	// Initial inner height in logical units.
	Height uint32 `toml:"height"`
	// Starting position. Both zero lets the window system place the window.
	PosX int `toml:"pos_x"`
	PosY int `toml:"pos_y"`
	// Wait for vertical blank on present.
	VSync     bool `toml:"vsync"`
	Resizable bool `toml:"resizable"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	// X11 color name used by the testbed to clear the window.
	ClearColor string `toml:"clear_color"`
	// Reload the file on change and post EVENT_CODE_CONFIG_RELOADED.
	Watch bool `toml:"watch"`

	path string
}

func NewWindowConfig() *WindowConfig {
	return &WindowConfig{
		Title:      DefaultTitle,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		VSync:      true,
		Resizable:  true,
		LogLevel:   "info",
		ClearColor: DefaultClearColor,
	}
}

func (c *WindowConfig) WithTitle(title string) *WindowConfig {
	c.Title = title
	return c
}

func (c *WindowConfig) WithSize(width, height uint32) *WindowConfig {
	c.Width = width
	c.Height = height
	return c
}

func (c *WindowConfig) WithPosition(x, y int) *WindowConfig {
	c.PosX = x
	c.PosY = y
	return c
}

func (c *WindowConfig) WithVSync(vsync bool) *WindowConfig {
	c.VSync = vsync
	return c
}

func (c *WindowConfig) WithResizable(resizable bool) *WindowConfig {
	c.Resizable = resizable
	return c
}

func (c *WindowConfig) WithClearColor(name string) *WindowConfig {
	c.ClearColor = name
	return c
}

// Path returns the file the config was loaded from, if any.
func (c *WindowConfig) Path() string {
	return c.path
}

// HasPosition reports whether an explicit starting position was requested.
func (c *WindowConfig) HasPosition() bool {
	return c.PosX != 0 || c.PosY != 0
}

// Level returns the parsed log level.
func (c *WindowConfig) Level() (core.LogLevel, error) {
	return core.ParseLogLevel(c.LogLevel)
}

// ClearColorRGBA resolves ClearColor to normalized RGBA components.
func (c *WindowConfig) ClearColorRGBA() ([4]float32, error) {
	name := strings.ToLower(strings.TrimSpace(c.ClearColor))
	if name == "" {
		name = DefaultClearColor
	}
	rgba, ok := colornames.Map[name]
	if !ok {
		return [4]float32{}, fmt.Errorf("unknown clear color %q", c.ClearColor)
	}
	return [4]float32{
		float32(rgba.R) / 255.0,
		float32(rgba.G) / 255.0,
		float32(rgba.B) / 255.0,
		float32(rgba.A) / 255.0,
	}, nil
}

// Validate checks the values that a window system would reject.
func (c *WindowConfig) Validate() error {
	var errs []error
	if c.Width == 0 || c.Height == 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ClearColorRGBA(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadWindowConfig reads a TOML file on top of the defaults. Keys missing from
// the file keep their default value; unknown keys are an error.
func LoadWindowConfig(path string) (*WindowConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := NewWindowConfig()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}
