package runtime

import (
	"log"
	"log/slog"
	"os"

	"github.com/nyaruka/ezconf"
	"github.com/nyaruka/voicex/utils"
)

// Config is our top level configuration object
type Config struct {
	Username string `validate:"required"      help:"the account username to issue call control requests as"`
	APIKey   string `validate:"required"      help:"the API key used to authenticate call control requests"`
	BaseURL  string `validate:"omitempty,url" help:"the base URL of the voice API, defaults to the production endpoint"`

	Address string `help:"the address to bind our web server to"`
	Port    int    `help:"the port to bind our web server to"`
	Domain  string `help:"the domain that voicex is listening on"`

	RequestTimeout int `help:"the timeout in milliseconds for call control requests"`
	MaxBodyBytes   int `help:"the maximum size in bytes of a webhook request body"`

	SentryDSN  string     `help:"the DSN used for logging errors to Sentry"`
	InstanceID string     `help:"the instance identifier to use in logs"`
	LogLevel   slog.Level `help:"the logging level voicex should use"`
	Version    string     `help:"the version of this voicex install"`
}

// NewDefaultConfig returns a new default configuration object
func NewDefaultConfig() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		Username: "sandbox",

		Address: "localhost",
		Port:    8070,
		Domain:  "localhost",

		RequestTimeout: 15000,
		MaxBodyBytes:   64 * 1024, // 64 KiB

		InstanceID: hostname,
		LogLevel:   slog.LevelWarn,
		Version:    "Dev",
	}
}

// LoadConfig loads our configuration from defaults, file, environment and command line
func LoadConfig() *Config {
	config := NewDefaultConfig()
	loader := ezconf.NewLoader(config, "voicex", "Voicex - client library for the voice API", []string{"voicex.toml"})
	loader.MustLoad()

	// ensure config is valid
	if err := config.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	return config
}

// Validate validates the config
func (c *Config) Validate() error {
	return utils.Validate(c)
}
