// Package config handles configuration loading for the thermometer renderer.
// It supports YAML config files, a .env file and environment variable
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/seenimoa/thermometer/internal/layout"
)

// EnvPrefix prefixes every environment override, e.g. THERMOMETER_API_PORT.
const EnvPrefix = "THERMOMETER"

// Config represents the complete application configuration.
type Config struct {
	Render  RenderConfig  `mapstructure:"render"  yaml:"render"`
	IO      IOConfig      `mapstructure:"io"      yaml:"io"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// RenderConfig mirrors layout.Style plus batch concurrency.
type RenderConfig struct {
	BaseWidth       int `mapstructure:"base_width"        yaml:"base_width"`
	Height          int `mapstructure:"height"            yaml:"height"`
	PadX            int `mapstructure:"pad_x"             yaml:"pad_x"`
	PadY            int `mapstructure:"pad_y"             yaml:"pad_y"`
	TitleFontPx     int `mapstructure:"title_font"        yaml:"title_font"`
	ValueFontPx     int `mapstructure:"value_font"        yaml:"value_font"`
	TitleValueGap   int `mapstructure:"title_value_gap"   yaml:"title_value_gap"`
	HeaderChartGap  int `mapstructure:"header_chart_gap"  yaml:"header_chart_gap"`
	TopLabelGap     int `mapstructure:"top_label_gap"     yaml:"top_label_gap"`
	BulbSpace       int `mapstructure:"bulb_space"        yaml:"bulb_space"`
	BottomPad       int `mapstructure:"bottom_pad"        yaml:"bottom_pad"`
	BarWidth        int `mapstructure:"bar_width"         yaml:"bar_width"`
	Gap             int `mapstructure:"gap"               yaml:"gap"`
	CornerRadius    int `mapstructure:"corner_radius"     yaml:"corner_radius"`
	LabelTextOffset int `mapstructure:"label_text_offset" yaml:"label_text_offset"`
	LabelBlock      int `mapstructure:"label_block"       yaml:"label_block"`
	LabelSpacer     int `mapstructure:"label_spacer"      yaml:"label_spacer"`
	RightMarginLast int `mapstructure:"right_margin_last" yaml:"right_margin_last"`
	ValueLabelGap   int `mapstructure:"value_label_gap"   yaml:"value_label_gap"`
	MajorTickLen    int `mapstructure:"major_tick_len"    yaml:"major_tick_len"`
	MinorTickLen    int `mapstructure:"minor_tick_len"    yaml:"minor_tick_len"`

	BulbRatio float64 `mapstructure:"bulb_ratio" yaml:"bulb_ratio"`
	BulbDrop  float64 `mapstructure:"bulb_drop"  yaml:"bulb_drop"`

	FillColor    string `mapstructure:"fill_color"    yaml:"fill_color"`
	EmptyColor   string `mapstructure:"empty_color"   yaml:"empty_color"`
	OutlineColor string `mapstructure:"outline_color" yaml:"outline_color"`
	TitleSuffix  string `mapstructure:"title_suffix"  yaml:"title_suffix"`

	FillMode         string  `mapstructure:"fill_mode"          yaml:"fill_mode"` // "solid" or "gradient"
	GradientHueStart float64 `mapstructure:"gradient_hue_start" yaml:"gradient_hue_start"`
	GradientHueEnd   float64 `mapstructure:"gradient_hue_end"   yaml:"gradient_hue_end"`

	LabelMode      string `mapstructure:"label_mode"       yaml:"label_mode"` // "compact", "all", "none", "custom"
	LabelColumns   []int  `mapstructure:"label_columns"    yaml:"label_columns"`
	LabelEvery     int64  `mapstructure:"label_every"      yaml:"label_every"`
	BulbMode       string `mapstructure:"bulb_mode"        yaml:"bulb_mode"` // "filled" or "outline"
	ShowMinorTicks bool   `mapstructure:"show_minor_ticks" yaml:"show_minor_ticks"`

	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"` // parallel renders in batch mode
}

// IOConfig holds CLI input and output defaults.
type IOConfig struct {
	Input  string `mapstructure:"input"  yaml:"input"`
	Output string `mapstructure:"output" yaml:"output"`
	Format string `mapstructure:"format" yaml:"format"` // empty: derived from output extension
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	Token       string   `mapstructure:"token"        yaml:"token"`       // optional bearer token
	CacheTTL    int      `mapstructure:"cache_ttl"    yaml:"cache_ttl"`   // seconds
	RateLimit   int      `mapstructure:"rate_limit"   yaml:"rate_limit"`  // renders per window
	RateWindow  int      `mapstructure:"rate_window"  yaml:"rate_window"` // seconds
}

// Addr returns host:port.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// CacheDuration returns CacheTTL as a duration.
func (a APIConfig) CacheDuration() time.Duration {
	return time.Duration(a.CacheTTL) * time.Second
}

// RefillInterval is the time for the rate limiter to regain one token.
func (a APIConfig) RefillInterval() time.Duration {
	if a.RateLimit <= 0 {
		return 0
	}
	return time.Duration(a.RateWindow) * time.Second / time.Duration(a.RateLimit)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.thermometer/config.yaml (home directory)
//  3. /etc/thermometer/config.yaml (system)
//
// A .env file in the working directory is loaded first. Environment
// variables override config file values.
// Format: THERMOMETER_<SECTION>_<KEY>, e.g., THERMOMETER_RENDER_FILL_MODE
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".thermometer"))
	v.AddConfigPath("/etc/thermometer")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// loadDotEnv exports variables from path without overriding ones already
// set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults seeds every key so environment overrides are recognised.
// Render defaults come straight from layout.DefaultStyle.
func setDefaults(v *viper.Viper) {
	s := layout.DefaultStyle()

	// Render defaults
	v.SetDefault("render.base_width", s.BaseWidth)
	v.SetDefault("render.height", s.Height)
	v.SetDefault("render.pad_x", s.PadX)
	v.SetDefault("render.pad_y", s.PadY)
	v.SetDefault("render.title_font", s.TitleFontPx)
	v.SetDefault("render.value_font", s.ValueFontPx)
	v.SetDefault("render.title_value_gap", s.TitleValueGap)
	v.SetDefault("render.header_chart_gap", s.HeaderChartGap)
	v.SetDefault("render.top_label_gap", s.TopLabelGap)
	v.SetDefault("render.bulb_space", s.BulbSpace)
	v.SetDefault("render.bottom_pad", s.BottomPad)
	v.SetDefault("render.bar_width", s.BarWidth)
	v.SetDefault("render.gap", s.Gap)
	v.SetDefault("render.corner_radius", s.CornerRadius)
	v.SetDefault("render.label_text_offset", s.LabelTextOffset)
	v.SetDefault("render.label_block", s.LabelBlock)
	v.SetDefault("render.label_spacer", s.LabelSpacer)
	v.SetDefault("render.right_margin_last", s.RightMarginLast)
	v.SetDefault("render.value_label_gap", s.ValueLabelGap)
	v.SetDefault("render.major_tick_len", s.MajorTickLen)
	v.SetDefault("render.minor_tick_len", s.MinorTickLen)
	v.SetDefault("render.bulb_ratio", s.BulbRatio)
	v.SetDefault("render.bulb_drop", s.BulbDrop)
	v.SetDefault("render.fill_color", s.FillColor)
	v.SetDefault("render.empty_color", s.EmptyColor)
	v.SetDefault("render.outline_color", s.OutlineColor)
	v.SetDefault("render.title_suffix", s.TitleSuffix)
	v.SetDefault("render.fill_mode", string(s.FillMode))
	v.SetDefault("render.gradient_hue_start", s.GradientHueStart)
	v.SetDefault("render.gradient_hue_end", s.GradientHueEnd)
	v.SetDefault("render.label_mode", string(s.LabelMode))
	v.SetDefault("render.label_columns", []int{})
	v.SetDefault("render.label_every", s.LabelEvery)
	v.SetDefault("render.bulb_mode", string(s.BulbMode))
	v.SetDefault("render.show_minor_ticks", s.ShowMinorTicks)
	v.SetDefault("render.concurrency", 4)

	// IO defaults
	v.SetDefault("io.input", "data/funds.json")
	v.SetDefault("io.output", "thermometer.svg")
	v.SetDefault("io.format", "")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.token", "")
	v.SetDefault("api.cache_ttl", 300) // 5 minutes
	v.SetDefault("api.rate_limit", 60)
	v.SetDefault("api.rate_window", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if token := os.Getenv(EnvPrefix + "_API_TOKEN"); token != "" {
		cfg.API.Token = token
	}
}

// Style converts the render section into a layout style.
func (c *Config) Style() layout.Style {
	r := c.Render
	return layout.Style{
		BaseWidth:        r.BaseWidth,
		Height:           r.Height,
		PadX:             r.PadX,
		PadY:             r.PadY,
		TitleFontPx:      r.TitleFontPx,
		ValueFontPx:      r.ValueFontPx,
		TitleValueGap:    r.TitleValueGap,
		HeaderChartGap:   r.HeaderChartGap,
		TopLabelGap:      r.TopLabelGap,
		BulbSpace:        r.BulbSpace,
		BottomPad:        r.BottomPad,
		BarWidth:         r.BarWidth,
		Gap:              r.Gap,
		CornerRadius:     r.CornerRadius,
		LabelTextOffset:  r.LabelTextOffset,
		LabelBlock:       r.LabelBlock,
		LabelSpacer:      r.LabelSpacer,
		RightMarginLast:  r.RightMarginLast,
		ValueLabelGap:    r.ValueLabelGap,
		MajorTickLen:     r.MajorTickLen,
		MinorTickLen:     r.MinorTickLen,
		BulbRatio:        r.BulbRatio,
		BulbDrop:         r.BulbDrop,
		FillColor:        r.FillColor,
		EmptyColor:       r.EmptyColor,
		OutlineColor:     r.OutlineColor,
		TitleSuffix:      r.TitleSuffix,
		FillMode:         layout.FillMode(strings.ToLower(r.FillMode)),
		GradientHueStart: r.GradientHueStart,
		GradientHueEnd:   r.GradientHueEnd,
		LabelMode:        layout.LabelMode(strings.ToLower(r.LabelMode)),
		LabelColumns:     append([]int(nil), r.LabelColumns...),
		LabelEvery:       r.LabelEvery,
		BulbMode:         layout.BulbMode(strings.ToLower(r.BulbMode)),
		ShowMinorTicks:   r.ShowMinorTicks,
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
