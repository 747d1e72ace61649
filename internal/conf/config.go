// config.go: settings struct and functions to load the application configuration.
package conf

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/metscout/metscout/internal/errors"
)

// MetAPISettings contains settings for the upstream museum API client.
type MetAPISettings struct {
	BaseURL       string        // base URL of the Met collection API
	UserAgent     string        // descriptive client identifier sent with every request
	SearchTimeout time.Duration // timeout for search and period queries
	ObjectTimeout time.Duration // timeout for single-object lookups
}

// CacheSettings contains settings for the response cache.
type CacheSettings struct {
	Store       string        // cache store backend: "memory", "file" or "redis"
	SearchTTL   time.Duration // TTL for volatile entries (search results, period queries)
	ObjectTTL   time.Duration // TTL for near-immutable per-object entries
	TimelineTTL time.Duration // TTL for assembled curated timelines
	NegativeTTL time.Duration // TTL for empty timeline results, 0 disables negative caching
	File        struct {
		Path string // directory for the file-backed store
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
}

// BlacklistSettings seeds the permanent id blacklist.
type BlacklistSettings struct {
	Permanent []int // object ids known to be unfetchable at the source
}

// TimelineSettings tunes the curated timeline assembly.
type TimelineSettings struct {
	BatchSize   int           // per-object fetches issued concurrently per batch
	BatchPause  time.Duration // pause between batches
	PoolFactor  int           // candidate pool cap as a multiple of the target count
	PerQueryCap int           // max ids taken from each search query before merging
	PeriodsFile string        // optional YAML file overriding the built-in period specs
}

// ServerSettings contains settings for the HTTP proxy server.
type ServerSettings struct {
	Host string
	Port int
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug bool

	Main struct {
		Name string // used as the CLI display name
		Log  struct {
			Enabled bool
			Path    string // directory for per-service log files
		}
	}

	MetAPI    MetAPISettings
	Cache     CacheSettings
	Blacklist BlacklistSettings
	Timeline  TimelineSettings
	Server    ServerSettings
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/metscout")
	viper.AddConfigPath("/etc/metscout")

	viper.SetEnvPrefix("metscout")
	viper.AutomaticEnv()

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults and env vars cover everything
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// ValidateSettings checks settings for values the rest of the application
// cannot recover from.
func ValidateSettings(settings *Settings) error {
	if settings.MetAPI.BaseURL == "" {
		return errors.Newf("metapi.baseurl must not be empty").
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	switch settings.Cache.Store {
	case "memory", "file", "redis":
	default:
		return errors.Newf("cache.store must be one of memory, file, redis, got %q", settings.Cache.Store).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	if settings.Timeline.BatchSize <= 0 {
		return errors.Newf("timeline.batchsize must be positive, got %d", settings.Timeline.BatchSize).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	if settings.Timeline.PoolFactor <= 0 {
		return errors.Newf("timeline.poolfactor must be positive, got %d", settings.Timeline.PoolFactor).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	return nil
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}
