package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis  `yaml:"redis"`
	AI         AI     `yaml:"ai"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// AI - opponent search settings.
type AI struct {
	// Depth bounds the minimax recursion; 9 searches a sub-board to exhaustion.
	Depth int `yaml:"depth" env:"AI_DEPTH" env-default:"9"`
	// Seed feeds the tie-breaking random source, 0 means seed from the clock.
	Seed int64 `yaml:"seed" env:"AI_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
