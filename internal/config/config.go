// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/R4F405/discord-jira-bot/internal/id"
)

// Config aggregates all environment variables required by the bot.  It
// is loaded once on startup via Load and checked with Validate before
// the Discord session or the webhook listener is started.
type Config struct {
	Env  string
	Port string

	Discord DiscordConfig
	Jira    JiraConfig
	Notify  NotifyConfig
	OTel    OTelConfig

	SentryDSN string
}

// DiscordConfig holds the bot token and the channel receiving webhook
// notifications.
type DiscordConfig struct {
	Token                 string
	ChannelID             string
	GuildID               string
	CommandPrefix         string
	PrefixCommandsEnabled bool
}

// JiraConfig holds the Jira Cloud site and the static credentials used for
// Basic authentication.
type JiraConfig struct {
	BaseURL        string
	Email          string
	APIToken       string
	TimeoutSeconds int
}

// NotifyConfig selects how webhook notifications travel from the HTTP
// handler to the Discord sender.
type NotifyConfig struct {
	Transport    string // "memory" or "redis"
	QueueSize    int
	RedisURL     string
	RedisChannel string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

// ServiceType names the entry point being validated.  Each one needs a
// different subset of the configuration.
type ServiceType string

const (
	ServiceServe  ServiceType = "serve"
	ServiceQuery  ServiceType = "query"
	ServiceWorker ServiceType = "worker"
)

const (
	TransportMemory = "memory"
	TransportRedis  = "redis"
)

// Load reads configuration from environment variables.  If a .env file
// exists in the working directory it is loaded first; errors are ignored
// since variables may already be set in the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Discord: DiscordConfig{
			Token:                 os.Getenv("DISCORD_TOKEN"),
			ChannelID:             strings.TrimSpace(os.Getenv("DISCORD_CHANNEL_ID")),
			GuildID:               strings.TrimSpace(os.Getenv("DISCORD_GUILD_ID")),
			CommandPrefix:         getEnv("COMMAND_PREFIX", "!jira"),
			PrefixCommandsEnabled: envBool("PREFIX_COMMANDS_ENABLED", false),
		},
		Jira: JiraConfig{
			BaseURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("JIRA_BASE_URL")), "/"),
			Email:          strings.TrimSpace(os.Getenv("JIRA_EMAIL")),
			APIToken:       strings.TrimSpace(os.Getenv("JIRA_API_TOKEN")),
			TimeoutSeconds: envInt("JIRA_TIMEOUT_SECONDS", 25),
		},
		Notify: NotifyConfig{
			Transport:    strings.ToLower(getEnv("NOTIFY_TRANSPORT", TransportMemory)),
			QueueSize:    envInt("NOTIFY_QUEUE_SIZE", 100),
			RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisChannel: getEnv("REDIS_CHANNEL", "jira_notifications"),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "discord-jira-bot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
	return cfg
}

// Validate reports every missing or malformed value required by the given
// entry point.  A non-nil error is fatal at startup.
func (c Config) Validate(svc ServiceType) error {
	var missing []string
	if svc != ServiceWorker {
		if c.Jira.BaseURL == "" {
			missing = append(missing, "JIRA_BASE_URL")
		}
		if c.Jira.Email == "" {
			missing = append(missing, "JIRA_EMAIL")
		}
		if c.Jira.APIToken == "" {
			missing = append(missing, "JIRA_API_TOKEN")
		}
	}
	if svc != ServiceQuery {
		if strings.TrimSpace(c.Discord.Token) == "" {
			missing = append(missing, "DISCORD_TOKEN")
		}
	}
	if svc == ServiceServe && c.Discord.ChannelID == "" {
		missing = append(missing, "DISCORD_CHANNEL_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch svc {
	case ServiceServe:
		if !id.Valid(c.Discord.ChannelID) {
			return fmt.Errorf("DISCORD_CHANNEL_ID is not a valid Discord id: %q", c.Discord.ChannelID)
		}
		if c.Discord.GuildID != "" && !id.Valid(c.Discord.GuildID) {
			return fmt.Errorf("DISCORD_GUILD_ID is not a valid Discord id: %q", c.Discord.GuildID)
		}
		switch c.Notify.Transport {
		case TransportMemory, TransportRedis:
		default:
			return fmt.Errorf("NOTIFY_TRANSPORT must be %q or %q, got %q", TransportMemory, TransportRedis, c.Notify.Transport)
		}
	case ServiceWorker:
		// jobs only reach a separate process through the broker
		if c.Notify.Transport != TransportRedis {
			return fmt.Errorf("the worker needs NOTIFY_TRANSPORT=%s, got %q", TransportRedis, c.Notify.Transport)
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}
