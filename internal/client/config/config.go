package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

const (
	defaultDevServerURL  = "http://localhost:8000"
	defaultProductionURL = "http://localhost:8000/api"
	devAPIPath           = "/api"
)

// Config holds runtime settings for the rentdesk CLI.
//
// Fields:
//   - Mode: "development" or "production"; selects the default API URL.
//   - APIBaseURL: absolute API URL; when set it wins over Mode.
//   - DevServerURL: origin of the development backend, "/api" is appended.
//   - DBPath: SQLite file holding the saved session.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	Mode         string `json:"mode" env:"MODE"`
	APIBaseURL   string `json:"api_url" env:"API_URL"`
	DevServerURL string `json:"dev_server_url" env:"DEV_SERVER_URL"`
	DBPath       string `json:"db_path" env:"DB_PATH"`
	LogLevel     string `json:"log_level" env:"LOG_LEVEL"`
	LogFormat    string `json:"log_format" env:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeDevelopment
	c.APIBaseURL = ""
	c.DevServerURL = defaultDevServerURL
	c.DBPath = "rentdesk.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then RENTDESK_* environment variables, then flags. Later
// sources take precedence. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	return load(args, nil)
}

// load is LoadConfig with an explicit environment; nil means os.Environ.
func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the mode and the log format.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db path is empty")
	}
	return nil
}

// BaseURL returns the absolute API URL the client should use.
func (c *Config) BaseURL() (string, error) {
	raw := strings.TrimSpace(c.APIBaseURL)
	if raw == "" {
		switch c.Mode {
		case ModeDevelopment:
			raw = strings.TrimRight(c.DevServerURL, "/") + devAPIPath
		case ModeProduction:
			raw = defaultProductionURL
		default:
			return "", fmt.Errorf("config: unknown mode %q", c.Mode)
		}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("config: API URL %q must be an absolute http(s) URL", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
