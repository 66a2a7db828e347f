package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging  LoggingConfig `mapstructure:"logging"`
	Provider string        `mapstructure:"provider"` // ollama, openai or script
	Ollama   OllamaConfig  `mapstructure:"ollama"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Agent    AgentConfig   `mapstructure:"agent"`
	Render   RenderConfig  `mapstructure:"render"`
	Uploads  UploadsConfig `mapstructure:"uploads"`
	History  HistoryConfig `mapstructure:"history"`
	Tokens   TokensConfig  `mapstructure:"tokens"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// OllamaConfig holds Ollama-specific configuration
type OllamaConfig struct {
	URL        string        `mapstructure:"url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI-specific configuration
type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"`
}

// AgentConfig controls the agent executor
type AgentConfig struct {
	SystemPrompt  string `mapstructure:"system_prompt"`
	MaxIterations int    `mapstructure:"max_iterations"`
	Script        string `mapstructure:"script"` // JSONL callback payloads for provider "script"
}

// RenderConfig controls how turns are displayed
type RenderConfig struct {
	Format          string `mapstructure:"format"` // terminal or jsonl
	Theme           string `mapstructure:"theme"`  // chroma style name
	Width           int    `mapstructure:"width"`
	Highlight       bool   `mapstructure:"highlight"`
	ExpandToolInput bool   `mapstructure:"expand_tool_input"`
}

// UploadsConfig controls the uploads directory
type UploadsConfig struct {
	Directory string `mapstructure:"directory"`
	ListLimit int    `mapstructure:"list_limit"`
}

// HistoryConfig controls the on-disk history snapshot
type HistoryConfig struct {
	File     string `mapstructure:"file"`
	Autosave bool   `mapstructure:"autosave"`
}

// TokensConfig controls token counting in stats
type TokensConfig struct {
	Encoding string `mapstructure:"encoding"` // auto, estimate or a tiktoken encoding name
}

const envPrefix = "AGENTFLOW"

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Set replaces the global config instance
func Set(c *Config) {
	cfg = c
}

// Load loads configuration from file and environment into the global
// viper instance and returns the decoded config.
func Load(cfgFile string) (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		v.AddConfigPath("./" + SettingsDirName)
		v.AddConfigPath(filepath.Join(xdgConfigHome, "agentflow"))
		v.SetConfigType("yaml")
		v.SetConfigName("settings")
	}

	if err := loadDotEnv(".env", filepath.Join(SettingsDirName, ".env")); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	loaded, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg = loaded
	return cfg, nil
}

// loadDotEnv exports variables from the dotenv files that exist. Variables
// already set in the environment win.
func loadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Defaults returns a config built from defaults only
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return c
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Post-process durations (viper doesn't handle time.Duration directly)
	if err := processDurations(c); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}
	return c, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "ollama")

	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "qwen3:latest")
	v.SetDefault("ollama.timeout", "90s")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout", "60s")

	v.SetDefault("agent.system_prompt", "You are a helpful AI assistant. Use the available tools to help users with their requests.")
	v.SetDefault("agent.max_iterations", 5)
	v.SetDefault("agent.script", "")

	v.SetDefault("render.format", "terminal")
	v.SetDefault("render.theme", "monokai")
	v.SetDefault("render.width", 100)
	v.SetDefault("render.highlight", true)
	v.SetDefault("render.expand_tool_input", false)

	v.SetDefault("uploads.directory", "uploads")
	v.SetDefault("uploads.list_limit", 10)

	v.SetDefault("history.file", "./"+SettingsDirName+"/chat_history.json")
	v.SetDefault("history.autosave", true)

	v.SetDefault("tokens.encoding", "auto")

	v.SetDefault("logging.log_file", "./"+SettingsDirName+"/system.log")
	v.SetDefault("logging.preserve", false)
	v.SetDefault("logging.level", "info")
}

// processDurations converts string durations to time.Duration
func processDurations(c *Config) error {
	if c.Ollama.TimeoutStr != "" {
		d, err := time.ParseDuration(c.Ollama.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid ollama.timeout: %w", err)
		}
		c.Ollama.Timeout = d
	} else if c.Ollama.Timeout == 0 {
		c.Ollama.Timeout = 90 * time.Second
	}

	if c.OpenAI.TimeoutStr != "" {
		d, err := time.ParseDuration(c.OpenAI.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid openai.timeout: %w", err)
		}
		c.OpenAI.Timeout = d
	} else if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = 60 * time.Second
	}

	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// GetActiveProvider returns the currently active provider name
func (c *Config) GetActiveProvider() string {
	if c.Provider == "" {
		return "ollama"
	}
	return c.Provider
}

// GetActiveProviderModel returns the model name for the currently active provider
func (c *Config) GetActiveProviderModel() string {
	switch c.GetActiveProvider() {
	case "openai":
		return c.OpenAI.Model
	case "script":
		return "script"
	default:
		return c.Ollama.Model
	}
}
