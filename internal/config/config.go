// Package config holds the startup parameters of a simulation run.
// Values come from defaults, then GRAINSIM_* environment variables, then
// command-line flags; nothing can change once the run starts.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid marks a configuration that must not start a run.
var ErrInvalid = errors.New("invalid configuration")

// Weather model names.
const (
	WeatherSeasonal = "seasonal"
	WeatherNoisy    = "noisy"
	WeatherCalm     = "calm"
)

// Config represents the startup parameters.
type Config struct {
	StartYear      int
	EndYear        int // exclusive
	InitialDeer    int
	InitialHeight  float64 // inches
	InitialHunters int
	Seed           int64
	Weather        string
	DBPath         string
	StallTimeout   time.Duration
	LogLevel       string
}

// Default returns the stock six-year run.
func Default() *Config {
	return &Config{
		StartYear:      2021,
		EndYear:        2027,
		InitialDeer:    1,
		InitialHeight:  3.0,
		InitialHunters: 0,
		Seed:           0,
		Weather:        WeatherSeasonal,
		StallTimeout:   10 * time.Second,
		LogLevel:       "info",
	}
}

// Bind attaches the configuration to the provided FlagSet. Current values
// become the flag defaults, so call it after ApplyEnv.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.StartYear, "start-year", c.StartYear, "first simulated year")
	fs.IntVar(&c.EndYear, "end-year", c.EndYear, "stop at January of this year")
	fs.IntVar(&c.InitialDeer, "deer", c.InitialDeer, "initial deer count")
	fs.Float64Var(&c.InitialHeight, "height", c.InitialHeight, "initial grain height (inches)")
	fs.IntVar(&c.InitialHunters, "hunters", c.InitialHunters, "initial hunter count")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "root random seed")
	fs.StringVar(&c.Weather, "weather", c.Weather, "weather model: seasonal, noisy or calm")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite run history path (empty disables)")
	fs.DurationVar(&c.StallTimeout, "stall-timeout", c.StallTimeout, "abort when a barrier waits this long (0 disables)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// ApplyEnv overrides fields from GRAINSIM_* variables found through getenv.
// Malformed values are reported, not ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	var errs []error

	intVar := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s=%q: not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	intVar("GRAINSIM_START_YEAR", &c.StartYear)
	intVar("GRAINSIM_END_YEAR", &c.EndYear)
	intVar("GRAINSIM_DEER", &c.InitialDeer)
	intVar("GRAINSIM_HUNTERS", &c.InitialHunters)

	if v := getenv("GRAINSIM_HEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("GRAINSIM_HEIGHT=%q: not a number", v))
		} else {
			c.InitialHeight = f
		}
	}
	if v := getenv("GRAINSIM_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("GRAINSIM_SEED=%q: not an integer", v))
		} else {
			c.Seed = n
		}
	}
	if v := getenv("GRAINSIM_STALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GRAINSIM_STALL_TIMEOUT=%q: not a duration", v))
		} else {
			c.StallTimeout = d
		}
	}
	if v := getenv("GRAINSIM_WEATHER"); v != "" {
		c.Weather = v
	}
	if v := getenv("GRAINSIM_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("GRAINSIM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Validate checks the parameters before anything is built.
func (c *Config) Validate() error {
	var errs []error
	if c.EndYear <= c.StartYear {
		errs = append(errs, fmt.Errorf("end year %d must be after start year %d", c.EndYear, c.StartYear))
	}
	if c.InitialDeer < 1 {
		errs = append(errs, fmt.Errorf("initial deer %d must be at least 1", c.InitialDeer))
	}
	if c.InitialHeight < 0 || math.IsNaN(c.InitialHeight) {
		errs = append(errs, fmt.Errorf("initial grain height %v must be non-negative", c.InitialHeight))
	}
	if c.InitialHunters < 0 {
		errs = append(errs, fmt.Errorf("initial hunters %d must be non-negative", c.InitialHunters))
	}
	switch c.Weather {
	case WeatherSeasonal, WeatherNoisy, WeatherCalm:
	default:
		errs = append(errs, fmt.Errorf("unknown weather model %q", c.Weather))
	}
	if c.StallTimeout < 0 {
		errs = append(errs, fmt.Errorf("stall timeout %s must not be negative", c.StallTimeout))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
