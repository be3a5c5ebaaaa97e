// Package config loads devo settings from .devo.yaml, DEVO_* environment
// variables and an optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	perr "tableflip.dev/devo/pkg/errors"
)

// Keys understood in .devo.yaml and as DEVO_<KEY> with dots replaced by
// underscores.
const (
	KeyServiceURL      = "service.url"
	KeyServiceToken    = "service.token"
	KeyServiceTimeout  = "service.timeout"
	KeyStorePath       = "store.path"
	KeySuggestCount    = "suggest.count"
	KeyDailyTheme      = "daily.theme"
	KeyDebounceSearch  = "debounce.search"
	KeyDebounceCustom  = "debounce.custom"
	KeyDebounceRef     = "debounce.reference"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	envConfigPath      = "DEVO_CONFIG_PATH"
	envDotEnv          = "DEVO_ENV_FILE"
	defaultDotEnvFile  = ".env"
	defaultStorePath   = "~/.devo"
	defaultServiceURL  = "http://localhost:8000"
	defaultDailyTheme  = "encouragement"
	defaultSuggestions = 10
)

// Config is the resolved configuration.
type Config struct {
	ServiceURL     string
	ServiceToken   string
	ServiceTimeout time.Duration
	StorePath      string
	SuggestCount   int
	DailyTheme     string
	SearchDelay    time.Duration
	CustomDelay    time.Duration
	ReferenceDelay time.Duration
	LogLevel       string
	LogFormat      string
}

// BasePath locates the local store; Config satisfies store.Config.
func (c *Config) BasePath() string { return c.StorePath }

// Load reads the configuration. A missing .devo.yaml or .env is fine; a
// malformed one is an error.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	dotenv := os.Getenv(envDotEnv)
	if dotenv == "" {
		dotenv = defaultDotEnvFile
	}
	if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
		return nil, perr.Wrapf(err, perr.KindValidation, "cannot read %s", dotenv)
	}

	v.SetDefault(KeyServiceURL, defaultServiceURL)
	v.SetDefault(KeyServiceToken, "")
	v.SetDefault(KeyServiceTimeout, time.Duration(0))
	v.SetDefault(KeyStorePath, defaultStorePath)
	v.SetDefault(KeySuggestCount, defaultSuggestions)
	v.SetDefault(KeyDailyTheme, defaultDailyTheme)
	v.SetDefault(KeyDebounceSearch, 300*time.Millisecond)
	v.SetDefault(KeyDebounceCustom, 800*time.Millisecond)
	v.SetDefault(KeyDebounceRef, 1000*time.Millisecond)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")

	v.SetConfigName(".devo") // .yaml is implicit
	v.SetEnvPrefix("DEVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(envConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, perr.Wrap(err, perr.KindValidation, "cannot read .devo config")
		}
	}

	storePath, err := homedir.Expand(v.GetString(KeyStorePath))
	if err != nil {
		return nil, perr.Wrap(err, perr.KindValidation, "invalid store.path")
	}

	c := &Config{
		ServiceURL:     strings.TrimRight(v.GetString(KeyServiceURL), "/"),
		ServiceToken:   v.GetString(KeyServiceToken),
		ServiceTimeout: v.GetDuration(KeyServiceTimeout),
		StorePath:      filepath.Clean(storePath),
		SuggestCount:   v.GetInt(KeySuggestCount),
		DailyTheme:     v.GetString(KeyDailyTheme),
		SearchDelay:    v.GetDuration(KeyDebounceSearch),
		CustomDelay:    v.GetDuration(KeyDebounceCustom),
		ReferenceDelay: v.GetDuration(KeyDebounceRef),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.ServiceURL == "":
		return perr.Validationf("%s is required", KeyServiceURL)
	case c.SuggestCount <= 0:
		return perr.Validationf("%s must be positive", KeySuggestCount)
	case c.SearchDelay < 0 || c.CustomDelay < 0 || c.ReferenceDelay < 0:
		return perr.Validationf("debounce delays must not be negative")
	case c.ServiceTimeout < 0:
		return perr.Validationf("%s must not be negative", KeyServiceTimeout)
	}
	return nil
}
