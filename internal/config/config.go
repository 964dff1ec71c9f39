package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// Config is built once at process start and handed to each component; stage
// logic never reads the environment itself.
type Config struct {
	MongoURI        string
	APIKey          string
	Database        string
	Collection      string
	DefaultLocation string
	JSONPath        string

	WeatherAPIURL       string
	WeatherAPITimeout   time.Duration
	MongoConnectTimeout time.Duration

	// FlowTimeout bounds total wall-clock across all stages and retries.
	// Zero keeps the original behavior: only per-attempt timeouts apply.
	FlowTimeout time.Duration

	MetricsAddr string

	ExtractPolicy  task.Policy
	SaveJSONPolicy task.Policy
	ReadJSONPolicy task.Policy
	LoadPolicy     task.Policy
}

type fileConfig struct {
	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Mongo struct {
		ConnectTimeout string `yaml:"connect_timeout"`
	} `yaml:"mongo"`

	Flow struct {
		Timeout  string `yaml:"timeout"`
		JSONPath string `yaml:"json_path"`
	} `yaml:"flow"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Retry struct {
		Extract  retryConfig `yaml:"extract"`
		SaveJSON retryConfig `yaml:"save_json"`
		ReadJSON retryConfig `yaml:"read_json"`
		Load     retryConfig `yaml:"load"`
	} `yaml:"retry"`
}

type retryConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Delay       string `yaml:"delay"`
}

// Load reads tunables from config/{ENV_NAME}.yaml when present (default dev;
// a missing file just means defaults) and settings from the environment.
// MONGO_URI and OPENWEATHER_API_KEY are required; everything else defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Database:            "clima_data",
		Collection:          "clima_data",
		DefaultLocation:     "San Jose,CR",
		JSONPath:            "clima_data.json",
		WeatherAPIURL:       "https://api.openweathermap.org/data/2.5/weather",
		WeatherAPITimeout:   30 * time.Second,
		MongoConnectTimeout: 5 * time.Second,
		ExtractPolicy:       task.Policy{MaxAttempts: 3, Delay: 5 * time.Second},
		SaveJSONPolicy:      task.Policy{MaxAttempts: 2, Delay: 2 * time.Second},
		ReadJSONPolicy:      task.Policy{MaxAttempts: 2, Delay: 2 * time.Second},
		LoadPolicy:          task.Policy{MaxAttempts: 3, Delay: 5 * time.Second},
	}

	if err := applyFile(cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("%w: MONGO_URI is required", task.ErrConfiguration)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENWEATHER_API_KEY is required", task.ErrConfiguration)
	}
	return cfg, nil
}

func applyFile(cfg *Config) error {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: get working directory: %v", task.ErrConfiguration, err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", task.ErrConfiguration, configPath, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", task.ErrConfiguration, configPath, err)
	}

	if fc.WeatherAPI.URL != "" {
		cfg.WeatherAPIURL = fc.WeatherAPI.URL
	}
	cfg.WeatherAPITimeout = parseDuration(fc.WeatherAPI.Timeout, cfg.WeatherAPITimeout)
	cfg.MongoConnectTimeout = parseDuration(fc.Mongo.ConnectTimeout, cfg.MongoConnectTimeout)
	cfg.FlowTimeout = parseDurationOrZero(fc.Flow.Timeout, cfg.FlowTimeout)
	if fc.Flow.JSONPath != "" {
		cfg.JSONPath = fc.Flow.JSONPath
	}
	if fc.Metrics.Addr != "" {
		cfg.MetricsAddr = fc.Metrics.Addr
	}

	applyRetry(&cfg.ExtractPolicy, fc.Retry.Extract)
	applyRetry(&cfg.SaveJSONPolicy, fc.Retry.SaveJSON)
	applyRetry(&cfg.ReadJSONPolicy, fc.Retry.ReadJSON)
	applyRetry(&cfg.LoadPolicy, fc.Retry.Load)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.MongoURI = strings.TrimSpace(os.Getenv("MONGO_URI"))
	cfg.APIKey = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("MONGO_DB_NAME")); v != "" {
		cfg.Database = v
	}
	if v := strings.TrimSpace(os.Getenv("MONGO_COLLECTION_NAME")); v != "" {
		cfg.Collection = v
	}
	if v := strings.TrimSpace(os.Getenv("CITY")); v != "" {
		cfg.DefaultLocation = v
	}
	if v := strings.TrimSpace(os.Getenv("JSON_PATH")); v != "" {
		cfg.JSONPath = v
	}
	if v := strings.TrimSpace(os.Getenv("WEATHER_API_URL")); v != "" {
		cfg.WeatherAPIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
}

func applyRetry(policy *task.Policy, rc retryConfig) {
	if rc.MaxAttempts > 0 {
		policy.MaxAttempts = rc.MaxAttempts
	}
	policy.Delay = parseDuration(rc.Delay, policy.Delay)
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty
// string or parse error. Zero and negative values pass through so "0" can mean
// "disabled" for the flow timeout.
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
