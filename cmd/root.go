package cmd

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/nurse-matcher/internal/matching"
)

const (
	app       = "nurse-matcher"
	envPrefix = "NURSE_MATCHER"
)

type Config struct {
	Store    *StoreConfig    `mapstructure:"store"`
	Matching *MatchingConfig `mapstructure:"matching"`
	AI       *AIConfig       `mapstructure:"ai"`
	Notify   *NotifyConfig   `mapstructure:"notify"`
	Filters  *FiltersConfig  `mapstructure:"filters"`
	Server   *ServerConfig   `mapstructure:"server"`
}

type StoreConfig struct {
	Driver   string          `mapstructure:"driver"`
	Path     string          `mapstructure:"path"`
	DSN      string          `mapstructure:"dsn"`
	DSNFile  string          `mapstructure:"dsn-file"`
	Migrate  bool            `mapstructure:"migrate"`
	Platform *PlatformConfig `mapstructure:"platform"`
}

type PlatformConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type MatchingConfig struct {
	Concurrency     int              `mapstructure:"concurrency"`
	NotifyThreshold *int             `mapstructure:"notify-threshold"`
	AITimeout       time.Duration    `mapstructure:"ai-timeout"`
	Weights         matching.Weights `mapstructure:"weights"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenAIConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	BaseURL      string `mapstructure:"base-url"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type NotifyConfig struct {
	Driver   string          `mapstructure:"driver"`
	Cooldown time.Duration   `mapstructure:"cooldown"`
	Timeout  time.Duration   `mapstructure:"timeout"`
	Telegram *TelegramConfig `mapstructure:"telegram"`
	Discord  *DiscordConfig  `mapstructure:"discord"`
}

type TelegramConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
	ChatID    int64  `mapstructure:"chat-id"`
}

type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
	ChannelID string `mapstructure:"channel-id"`
}

type FiltersConfig struct {
	ExcludeFacilities []string `mapstructure:"exclude-facilities"`
}

type ServerConfig struct {
	Listen         string   `mapstructure:"listen"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "nurse-matcher ranks open nursing jobs for a candidate",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is nurse-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.path", "data.yaml")
	viper.SetDefault("matching.concurrency", matching.DefaultConcurrency)
	viper.SetDefault("matching.notify-threshold", matching.DefaultNotifyThreshold)
	viper.SetDefault("matching.ai-timeout", matching.DefaultAITimeout)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("notify.driver", "log")
	viper.SetDefault("notify.timeout", matching.DefaultNotifyTimeout)
	viper.SetDefault("server.listen", ":8080")
}

func initConfig() {
	// A missing .env is fine, it only adds to the process environment.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// version needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without an explicit file the defaults and environment are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	config.fillDefaults()

	return config, nil
}

func (c *Config) fillDefaults() {
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Platform == nil {
		c.Store.Platform = &PlatformConfig{}
	}
	if c.Matching == nil {
		c.Matching = &MatchingConfig{}
	}
	if c.AI == nil {
		c.AI = &AIConfig{}
	}
	if c.AI.Gemini == nil {
		c.AI.Gemini = &GeminiConfig{}
	}
	if c.AI.OpenAI == nil {
		c.AI.OpenAI = &OpenAIConfig{}
	}
	if c.Notify == nil {
		c.Notify = &NotifyConfig{}
	}
	if c.Notify.Telegram == nil {
		c.Notify.Telegram = &TelegramConfig{}
	}
	if c.Notify.Discord == nil {
		c.Notify.Discord = &DiscordConfig{}
	}
	if c.Filters == nil {
		c.Filters = &FiltersConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
}
