package config

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

// DevTokenSecret signs tokens when TOKEN_SECRET is unset. Never use it in production.
const DevTokenSecret = "dev-secret-do-not-use-in-prod"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	KV      KVConfig      `mapstructure:"kv"`
	Token   TokenConfig   `mapstructure:"token"`
	Billing BillingConfig `mapstructure:"billing"`
	Coach   CoachConfig   `mapstructure:"coach"`
	Backup  BackupConfig  `mapstructure:"backup"`
	AWS     AWSConfig     `mapstructure:"aws"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type KVConfig struct {
	// Backend is one of memory, sql, dynamodb. Empty disables rate limiting and
	// payment idempotency.
	Backend       string        `mapstructure:"backend"`
	TableName     string        `mapstructure:"table_name"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

type TokenConfig struct {
	Secret           string `mapstructure:"secret"`
	Prefix           string `mapstructure:"prefix"`
	AcceptLegacy     bool   `mapstructure:"accept_legacy"`
	AllowUnversioned bool   `mapstructure:"allow_unversioned"`
	// StaticTokens is a comma separated allow-list of legacy tokens.
	StaticTokens string `mapstructure:"static_tokens"`
}

type BillingConfig struct {
	UnlockCodes    string `mapstructure:"unlock_codes"`
	PortOneSecret  string `mapstructure:"portone_secret"`
	PortOneBaseURL string `mapstructure:"portone_base_url"`
}

type CoachConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	RequireToken bool   `mapstructure:"require_token"`
	Fallback     bool   `mapstructure:"fallback"`
	RateLimit    int    `mapstructure:"rate_limit"`
}

type BackupConfig struct {
	Bucket   string        `mapstructure:"bucket"`
	Prefix   string        `mapstructure:"prefix"`
	Dir      string        `mapstructure:"dir"`
	Interval time.Duration `mapstructure:"interval"`
}

type AWSConfig struct {
	Profile string `mapstructure:"profile"`
	Region  string `mapstructure:"region"`
}

var envBindings = map[string]string{
	"server.host":              "SERVER_HOST",
	"server.port":              "SERVER_PORT",
	"store.driver":             "STORE_DRIVER",
	"store.dsn":                "STORE_DSN",
	"kv.backend":               "KV_BACKEND",
	"kv.table_name":            "KV_TABLE",
	"token.secret":             "TOKEN_SECRET",
	"token.prefix":             "PRO_TOKEN_PREFIX",
	"token.accept_legacy":      "TOKEN_ACCEPT_LEGACY",
	"token.allow_unversioned":  "TOKEN_ALLOW_UNVERSIONED",
	"token.static_tokens":      "PRO_TOKENS",
	"billing.unlock_codes":     "PRO_UNLOCK_CODES",
	"billing.portone_secret":   "PORTONE_API_SECRET",
	"billing.portone_base_url": "PORTONE_BASE_URL",
	"coach.base_url":           "LLM_BASE_URL",
	"coach.api_key":            "LLM_API_KEY",
	"coach.model":              "LLM_MODEL",
	"coach.require_token":      "COACH_REQUIRE_TOKEN",
	"coach.fallback":           "COACH_FALLBACK",
	"backup.bucket":            "BACKUP_BUCKET",
	"backup.dir":               "BACKUP_DIR",
	"aws.profile":              "AWS_PROFILE",
	"aws.region":               "AWS_REGION",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("store.driver", "duckdb")
	v.SetDefault("store.dsn", "relationship-roi.db")
	v.SetDefault("kv.backend", "sql")
	v.SetDefault("kv.purge_interval", "10m")
	v.SetDefault("token.secret", DevTokenSecret)
	v.SetDefault("token.prefix", "pro")
	v.SetDefault("billing.portone_base_url", "https://api.portone.io/v2")
	v.SetDefault("coach.base_url", "https://api.openai.com/v1")
	v.SetDefault("coach.model", "gpt-4o-mini")
	v.SetDefault("coach.require_token", true)
	v.SetDefault("coach.fallback", true)
	v.SetDefault("coach.rate_limit", 5)
	v.SetDefault("backup.prefix", "ledgers")
	v.SetDefault("backup.interval", "24h")
	v.SetDefault("aws.region", "us-east-1")
}

// Load reads defaults, then the optional YAML file at path, then the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// Warnings lists insecure settings worth logging at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.Token.Secret == DevTokenSecret {
		out = append(out, "TOKEN_SECRET is not set, tokens are signed with the development secret")
	}
	if c.Coach.APIKey == "" {
		out = append(out, "LLM_API_KEY is not set, the coach answers with local rules only")
	}
	if c.Billing.PortOneSecret == "" {
		out = append(out, "PORTONE_API_SECRET is not set, payment verification is disabled")
	}
	return out
}
