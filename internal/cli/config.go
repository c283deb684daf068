package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/tableheatmap/pkg/cache"
	errs "github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/pipeline"
	"github.com/matzehuels/tableheatmap/pkg/settings"
)

// envPrefix prefixes environment overrides: TABLEHEATMAP_CACHE_BACKEND=none.
const envPrefix = "TABLEHEATMAP"

// Cache backends selectable with cache.backend.
const (
	backendFile  = "file"
	backendNone  = "none"
	backendRedis = "redis"
	backendMongo = "mongo"
)

// Config is the user configuration. A config file looks like:
//
//	width  = 1000
//	height = 500
//
//	[margin]
//	left = 20
//
//	[settings.general]
//	colorbrewer = "Blues"
//	buckets     = 7
//
//	[cache]
//	backend    = "redis"
//	redis_addr = "localhost:6379"
//	prefix     = "team-a:"
//
//	[serve]
//	addr = ":9000"
type Config struct {
	Width    float64          `mapstructure:"width"`
	Height   float64          `mapstructure:"height"`
	Margin   *heatmap.Margin  `mapstructure:"margin"`
	Settings settings.Objects `mapstructure:"settings"`
	Cache    CacheConfig      `mapstructure:"cache"`
	Serve    ServeConfig      `mapstructure:"serve"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string `mapstructure:"backend"`
	Dir       string `mapstructure:"dir"`
	RedisAddr string `mapstructure:"redis_addr"`
	MongoURI  string `mapstructure:"mongo_uri"`

	// Prefix scopes every key, so several installations can share one
	// Redis or MongoDB.
	Prefix string `mapstructure:"prefix"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr        string        `mapstructure:"addr"`
	MaxBodySize int64         `mapstructure:"max_body_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("width", pipeline.DefaultWidth)
	v.SetDefault("height", pipeline.DefaultHeight)
	v.SetDefault("cache.backend", backendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.mongo_uri", "")
	v.SetDefault("cache.prefix", "")
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.max_body_size", 10<<20)
	v.SetDefault("serve.timeout", 30*time.Second)
}

func defaultConfig() *Config {
	v := viper.New()
	setConfigDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// loadConfig reads path, or config.toml from the config directory when
// path is empty, and applies environment overrides. A missing default
// config file is not an error; a missing explicit one is.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", v.ConfigFileUsed())
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

// cacheURL turns the cache section into a URL understood by [cache.Open].
func (cfg *Config) cacheURL() (string, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "", backendFile:
		if cfg.Cache.Dir != "" {
			return cfg.Cache.Dir, nil
		}
		dir, err := cacheDir()
		if err != nil {
			return "none", nil
		}
		return dir, nil
	case backendNone:
		return "none", nil
	case backendRedis:
		addr := cfg.Cache.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		if !strings.Contains(addr, "://") {
			addr = "redis://" + addr
		}
		return addr, nil
	case backendMongo:
		if cfg.Cache.MongoURI == "" {
			return "mongodb://localhost:27017", nil
		}
		return cfg.Cache.MongoURI, nil
	default:
		return "", fmt.Errorf("cache.backend %q: %w", cfg.Cache.Backend, cache.ErrUnknownBackend)
	}
}

// viewport returns the configured size, overridden by non-zero flags.
func (cfg *Config) viewport(width, height float64) heatmap.Viewport {
	vp := heatmap.Viewport{Width: cfg.Width, Height: cfg.Height}
	if width > 0 {
		vp.Width = width
	}
	if height > 0 {
		vp.Height = height
	}
	return vp
}

// objects returns the configured settings with "object.property=value"
// assignments applied on top, as host objects.
func (cfg *Config) objects(assignments []string) (settings.Objects, error) {
	s, err := settings.Parse(cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("config settings: %w", err)
	}
	for _, kv := range assignments {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidSettings, "--set %q must be object.property=value", kv)
		}
		if err := s.Set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
			return nil, err
		}
	}
	return s.Objects(), nil
}

// keyer returns the cache keyer, scoped by cache.prefix when set.
func (cfg *Config) keyer() cache.Keyer {
	if cfg.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
}
