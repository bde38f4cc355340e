// Package config loads game settings from an optional file and BLOCKFALL_*
// environment variables, and turns them into engine options.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/well"
	"github.com/spf13/viper"
	"golang.org/x/image/colornames"
)

type Config struct {
	Rows         int           `mapstructure:"rows"`
	Cols         int           `mapstructure:"cols"`
	BlockSize    int           `mapstructure:"block_size"`
	FallInterval time.Duration `mapstructure:"fall_interval"`
	ColorPolicy  string        `mapstructure:"color_policy"`
	FixedColor   string        `mapstructure:"fixed_color"`
	Palette      []string      `mapstructure:"palette"`
	LockColor    string        `mapstructure:"lock_color"`
	ClearPolicy  string        `mapstructure:"clear_policy"`
	Seed         uint64        `mapstructure:"seed"`
	StartLevel   int           `mapstructure:"start_level"`
	LogLevel     string        `mapstructure:"log_level"`
	Debug        bool          `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rows", well.DefaultRows)
	v.SetDefault("cols", well.DefaultCols)
	v.SetDefault("block_size", 30)
	v.SetDefault("fall_interval", engine.DefaultFallInterval)
	v.SetDefault("color_policy", "fixed")
	v.SetDefault("fixed_color", "red")
	v.SetDefault("palette", []string{"blue", "red"})
	v.SetDefault("lock_color", "")
	v.SetDefault("clear_policy", "compact")
	v.SetDefault("seed", 0)
	v.SetDefault("start_level", 1)
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
}

// Load reads path if it is non-empty, applies environment overrides and
// validates the result. With an empty path only defaults and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BLOCKFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and that every named color and policy is known.
func (c *Config) Validate() error {
	var errs []error
	if c.Rows < 4 {
		errs = append(errs, fmt.Errorf("rows must be at least 4, got %d", c.Rows))
	}
	if c.Cols < 4 {
		errs = append(errs, fmt.Errorf("cols must be at least 4, got %d", c.Cols))
	}
	if c.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("block_size must be positive, got %d", c.BlockSize))
	}
	if c.FallInterval <= 0 {
		errs = append(errs, fmt.Errorf("fall_interval must be positive, got %s", c.FallInterval))
	}
	if _, err := c.clearPolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.colorOptions(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) clearPolicy() (well.Policy, error) {
	switch strings.ToLower(c.ClearPolicy) {
	case "", "compact":
		return well.Compact, nil
	case "vanish":
		return well.Vanish, nil
	default:
		return 0, fmt.Errorf("unknown clear_policy %q", c.ClearPolicy)
	}
}

// ParseColor resolves an SVG color name such as "red" or "skyblue".
func ParseColor(name string) (color.RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

func (c *Config) colorOptions() ([]engine.Option, error) {
	var opts []engine.Option

	switch strings.ToLower(c.ColorPolicy) {
	case "", "fixed":
		fixed, err := ParseColor(c.FixedColor)
		if err != nil {
			return nil, fmt.Errorf("fixed_color: %w", err)
		}
		opts = append(opts, engine.WithFixedColor(fixed))
	case "palette":
		if len(c.Palette) == 0 {
			return nil, errors.New("palette must not be empty")
		}
		palette := make([]color.RGBA, 0, len(c.Palette))
		for _, name := range c.Palette {
			clr, err := ParseColor(name)
			if err != nil {
				return nil, fmt.Errorf("palette: %w", err)
			}
			palette = append(palette, clr)
		}
		opts = append(opts, engine.WithPalette(palette...))
	default:
		return nil, fmt.Errorf("unknown color_policy %q", c.ColorPolicy)
	}

	if c.LockColor != "" {
		lock, err := ParseColor(c.LockColor)
		if err != nil {
			return nil, fmt.Errorf("lock_color: %w", err)
		}
		opts = append(opts, engine.WithLockColor(lock))
	}

	return opts, nil
}

// EngineOptions translates the configuration into engine options.
func (c *Config) EngineOptions() ([]engine.Option, error) {
	policy, err := c.clearPolicy()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	colors, err := c.colorOptions()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	opts := []engine.Option{
		engine.WithSize(c.Rows, c.Cols),
		engine.WithFallInterval(c.FallInterval),
		engine.WithClearPolicy(policy),
		engine.WithStartLevel(c.StartLevel),
	}
	opts = append(opts, colors...)
	if c.Seed != 0 {
		opts = append(opts, engine.WithSeed(c.Seed))
	}
	return opts, nil
}
