package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Source   SourceConfig   `mapstructure:"source"`
	Database DatabaseConfig `mapstructure:"db"`
	Render   RenderConfig   `mapstructure:"render"`
	Log      LogConfig      `mapstructure:"log"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
	// RequestTimeout bounds fetch + pivot + render of one request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SourceConfig selects where duty records come from: "postgres" reads the db section,
// "json" reads the file at Path.
type SourceConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

// DatabaseConfig describes the Postgres database holding duty records.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	// Table holding duty records; quoted as an identifier before use.
	Table           string `mapstructure:"table"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds a lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RenderConfig controls the HTML, PNG and XLSX outputs.
type RenderConfig struct {
	OutputDir string   `mapstructure:"output_dir"`
	Formats   []string `mapstructure:"formats"` // html, png, xlsx
	// ChromePath overrides the browser binary used for PNG export.
	ChromePath        string        `mapstructure:"chrome_path"`
	NoSandbox         bool          `mapstructure:"no_sandbox"`
	ScreenshotTimeout time.Duration `mapstructure:"screenshot_timeout"`
	// Grids with at least WideColumns content columns use the wide page layout.
	WideColumns int     `mapstructure:"wide_columns"`
	WideWidth   int     `mapstructure:"wide_width"`
	WideZoom    float64 `mapstructure:"wide_zoom"`
	NarrowWidth int     `mapstructure:"narrow_width"`
	NarrowZoom  float64 `mapstructure:"narrow_zoom"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

var (
	validFormats = map[string]bool{"html": true, "png": true, "xlsx": true}
	validSources = map[string]bool{"postgres": true, "json": true}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		Source: SourceConfig{
			Kind: "postgres",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "company",
			User:            "postgres",
			SSLMode:         "disable",
			Table:           "duty_records",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30,
		},
		Render: RenderConfig{
			OutputDir:         ".",
			Formats:           []string{"html", "png"},
			ScreenshotTimeout: 60 * time.Second,
			WideColumns:       6,
			WideWidth:         3000,
			WideZoom:          0.33,
			NarrowWidth:       1200,
			NarrowZoom:        1.0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Calendar: DefaultCalendar(),
	}
}

// Load reads configuration from defaults, the YAML file at path (or ./config.yaml,
// ./config/config.yaml when path is empty) and DUTYGRID_* environment variables,
// in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DUTYGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)

	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.path", d.Source.Path)

	v.SetDefault("db.host", d.Database.Host)
	v.SetDefault("db.port", d.Database.Port)
	v.SetDefault("db.name", d.Database.Name)
	v.SetDefault("db.user", d.Database.User)
	v.SetDefault("db.password", d.Database.Password)
	v.SetDefault("db.sslmode", d.Database.SSLMode)
	v.SetDefault("db.table", d.Database.Table)
	v.SetDefault("db.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("db.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("db.conn_max_lifetime", d.Database.ConnMaxLifetime)

	v.SetDefault("render.output_dir", d.Render.OutputDir)
	v.SetDefault("render.formats", d.Render.Formats)
	v.SetDefault("render.chrome_path", d.Render.ChromePath)
	v.SetDefault("render.no_sandbox", d.Render.NoSandbox)
	v.SetDefault("render.screenshot_timeout", d.Render.ScreenshotTimeout)
	v.SetDefault("render.wide_columns", d.Render.WideColumns)
	v.SetDefault("render.wide_width", d.Render.WideWidth)
	v.SetDefault("render.wide_zoom", d.Render.WideZoom)
	v.SetDefault("render.narrow_width", d.Render.NarrowWidth)
	v.SetDefault("render.narrow_zoom", d.Render.NarrowZoom)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("calendar.month_names", d.Calendar.MonthNames)
	v.SetDefault("calendar.titles", d.Calendar.Titles)
	v.SetDefault("calendar.labels.title", d.Calendar.Labels.Title)
	v.SetDefault("calendar.labels.department", d.Calendar.Labels.Department)
	v.SetDefault("calendar.labels.period", d.Calendar.Labels.Period)
	v.SetDefault("calendar.default_role", d.Calendar.DefaultRole)
	v.SetDefault("calendar.roles", d.Calendar.Roles)
	v.SetDefault("calendar.wide_periods", d.Calendar.WidePeriods)
	v.SetDefault("calendar.subwards", d.Calendar.Subwards)
	v.SetDefault("calendar.wards", d.Calendar.Wards)
	v.SetDefault("calendar.ward_tables", d.Calendar.WardTables)
}

// Validate checks the values the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !validSources[c.Source.Kind] {
		return fmt.Errorf("config: unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Kind == "json" && c.Source.Path == "" {
		return fmt.Errorf("config: source.path is required for json sources")
	}
	if c.Source.Kind == "postgres" && c.Database.Table == "" {
		return fmt.Errorf("config: db.table must not be empty")
	}
	if len(c.Render.Formats) == 0 {
		return fmt.Errorf("config: render.formats must not be empty")
	}
	for _, f := range c.Render.Formats {
		if !validFormats[f] {
			return fmt.Errorf("config: unknown render format %q", f)
		}
	}
	return c.Calendar.Validate()
}
