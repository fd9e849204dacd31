package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Country    string           `mapstructure:"country"`
	Server     ServerConfig     `mapstructure:"server"`
	Elastic    ElasticConfig    `mapstructure:"elastic"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Rabbit     RabbitConfig     `mapstructure:"rabbit"`
	Search     SearchConfig     `mapstructure:"search"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Session    SessionConfig    `mapstructure:"session"`
	Dates      DatesConfig      `mapstructure:"dates"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
	Debug  string `mapstructure:"debug"`
}

type ElasticConfig struct {
	Host  string `mapstructure:"host"`
	Index string `mapstructure:"index"`
}

// RedisConfig is optional, an empty address disables the search cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RabbitConfig is optional, an empty url disables tracking.
type RabbitConfig struct {
	Url string `mapstructure:"url"`
}

type SearchConfig struct {
	HitsPerPage int `mapstructure:"hits_per_page"`
}

type PaginationConfig struct {
	Padding int `mapstructure:"padding"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type DatesConfig struct {
	Location string `mapstructure:"location"`
}

// Location resolves the zone used to turn selected days into calendar dates.
func (c Config) Location() (*time.Location, error) {
	if c.Dates.Location == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Dates.Location)
	if err != nil {
		return nil, fmt.Errorf("dates.location: %w", err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("country", "se")
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.debug", ":8081")
	v.SetDefault("elastic.host", "http://localhost:9200")
	v.SetDefault("elastic.index", "articles")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("rabbit.url", "")
	v.SetDefault("search.hits_per_page", 12)
	v.SetDefault("pagination.padding", 1)
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("dates.location", "UTC")
}

// Load reads defaults, an optional config file and the environment. Env
// overrides use the prefix SLASK_, so elastic.host is SLASK_ELASTIC_HOST.
// SLASK_CONFIG points at a config file, otherwise slask-filters.yaml is
// looked up in the working directory and /etc/slask-filters.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path := os.Getenv("SLASK_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("slask-filters")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/slask-filters")
	}

	v.SetEnvPrefix("SLASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Search.HitsPerPage <= 0 {
		return Config{}, fmt.Errorf("search.hits_per_page must be positive, got %d", c.Search.HitsPerPage)
	}
	if c.Pagination.Padding < 0 {
		return Config{}, fmt.Errorf("pagination.padding must not be negative, got %d", c.Pagination.Padding)
	}
	return c, nil
}
