package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/bigredeye/gradebook/pkg/conf"
)

const (
	BackendMemory   = "memory"
	BackendDataBase = "database"
	BackendRedis    = "redis"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		ListenAddress   string
		ShutdownTimeout time.Duration
		Cookies         struct {
			AuthenticationKey string
			EncryptionKey     string
			Secure            bool
		}
	}

	Storage struct {
		Backend string
	}

	DataBase struct {
		Driver string
		Host   string
		Port   uint16
		User   string
		Pass   string
		Name   string
		// Path is the database file for the sqlite driver.
		Path           string
		ConnectTimeout time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	Cache struct {
		TTL     time.Duration
		MaxSize int64
	}

	Import struct {
		MaxSize string
	}

	Log struct {
		Production bool
		File       string
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DataBase.Host, c.DataBase.Port, c.DataBase.User, c.DataBase.Pass, c.DataBase.Name)
}

func ParseConfig(path string) (*Config, error) {
	config := &Config{}
	err := conf.ParseConfig(config,
		conf.EnvPrefix("GRADEBOOK"),
		conf.File(path),
		conf.Default("Server.ListenAddress", ":8080"),
		conf.Default("Server.ShutdownTimeout", "10s"),
		conf.Default("Storage.Backend", BackendMemory),
		conf.Default("DataBase.Driver", DriverPostgres),
		conf.Default("DataBase.Host", "localhost"),
		conf.Default("DataBase.Port", 5432),
		conf.Default("DataBase.Name", "gradebook"),
		conf.Default("DataBase.Path", "gradebook.db"),
		conf.Default("DataBase.ConnectTimeout", "30s"),
		conf.Default("Redis.Addr", "localhost:6379"),
		conf.Default("Redis.Prefix", "gradebook"),
		conf.Default("Cache.MaxSize", 1000),
		conf.Default("Import.MaxSize", "8MiB"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse config")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendDataBase, BackendRedis:
	default:
		return errors.Errorf("Unknown storage backend %q", c.Storage.Backend)
	}
	switch c.DataBase.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("Unknown database driver %q", c.DataBase.Driver)
	}
	return nil
}
