package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"repostudio" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"repostudio" description:"Database password"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"repostudio" description:"Database name"`
	DBSSLMode  string `long:"db-sslmode" env:"DB_SSLMODE" default:"disable" description:"Database SSL mode"`

	// Source platform credentials (never logged)
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit API client ID"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit API client secret"`

	// Engagement platform credentials (never logged)
	XBearerToken string `long:"x-bearer-token" env:"X_BEARER_TOKEN" description:"X API bearer token"`

	// Generative collaborator
	AnthropicAPIKey string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key for draft and insight generation"`
	AnthropicModel  string `long:"anthropic-model" env:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514" description:"Model used for draft and insight generation"`

	// Harvester configuration
	ChannelsFile      string `long:"channels-file" env:"CHANNELS_FILE" default:"./channels.yaml" description:"YAML file listing source channels to harvest"`
	PageSize          int    `long:"page-size" env:"PAGE_SIZE" default:"25" description:"Items fetched per channel listing"`
	SourcePaceMS      int    `long:"source-pace-ms" env:"SOURCE_PACE_MS" default:"2000" description:"Minimum delay between source API calls in milliseconds"`
	EngagementPaceMS  int    `long:"engagement-pace-ms" env:"ENGAGEMENT_PACE_MS" default:"1000" description:"Minimum delay between engagement API calls in milliseconds"`
	RequestTimeoutSec int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"Per-request timeout in seconds"`

	// HTTP server configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"0" description:"Serve-mode harvest interval in seconds (0 disables, external cron remains the trigger)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"repostudio/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses flags and environment variables and returns the config plus
// any remaining positional arguments (the command to run).
func Load() (*Cfg, []string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:             raw.DBHost,
		DBPort:             raw.DBPort,
		DBUser:             raw.DBUser,
		DBPassword:         raw.DBPassword,
		DBName:             raw.DBName,
		DBSSLMode:          raw.DBSSLMode,
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		XBearerToken:       raw.XBearerToken,
		AnthropicAPIKey:    raw.AnthropicAPIKey,
		AnthropicModel:     raw.AnthropicModel,
		ChannelsFile:       raw.ChannelsFile,
		PageSize:           raw.PageSize,
		SourcePaceMS:       raw.SourcePaceMS,
		EngagementPaceMS:   raw.EngagementPaceMS,
		RequestTimeoutSec:  raw.RequestTimeoutSec,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		SchedulerInterval:  raw.SchedulerInterval,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, args, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
