package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrInvalidUpdateLimit = errors.New("update-limit must be positive")
	ErrInvalidRate        = errors.New("rate must be in (0,1]")
	ErrInvalidWeight      = errors.New("default-weight must be in [0,1]")
	ErrInvalidFirstMark   = errors.New("first-mark must be 1 or 2")
	ErrInvalidGames       = errors.New("games must not be negative")
)

type Config struct {
	LogLevel          string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Engine            Engine   `yaml:"engine"`
	Training          Training `yaml:"training"`
	Redis             Redis    `yaml:"redis"`
	SQLiteStoragePath string   `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH"`
}

type Engine struct {
	SourcePath    string        `yaml:"source-path" env:"ENGINE_SOURCE_PATH" env-default:"data/move_weights.txt"`
	UpdateLimit   int           `yaml:"update-limit" env:"ENGINE_UPDATE_LIMIT"`
	AutoUpdate    bool          `yaml:"auto-update" env:"ENGINE_AUTO_UPDATE"`
	DefaultWeight float64       `yaml:"default-weight"`
	LearningRate  float64       `yaml:"learning-rate"`
	DrawRate      float64       `yaml:"draw-rate"`
	PollInterval  time.Duration `yaml:"poll-interval"`
}

type Training struct {
	RunID          string `yaml:"run-id" env:"TRAINING_RUN_ID" env-default:"default"`
	Games          int    `yaml:"games" env:"TRAINING_GAMES"`
	FirstMark      int    `yaml:"first-mark"`
	RotateOpenings bool   `yaml:"rotate-openings"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// defaultConfig sets the numeric defaults. Keys present in the file override
// them, explicit zeros included.
func defaultConfig() *Config {
	return &Config{
		Engine: Engine{
			UpdateLimit:   1000,
			DefaultWeight: 0.5,
			LearningRate:  0.1,
			DrawRate:      0.05,
			PollInterval:  10 * time.Millisecond,
		},
		Training: Training{
			Games:     10000,
			FirstMark: 1,
		},
	}
}

// Load reads the file, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := defaultConfig()

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	var errs []error

	if that.Engine.UpdateLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidUpdateLimit, that.Engine.UpdateLimit))
	}

	if that.Engine.LearningRate <= 0 || that.Engine.LearningRate > 1 {
		errs = append(errs, fmt.Errorf("learning-rate %w: %v", ErrInvalidRate, that.Engine.LearningRate))
	}

	if that.Engine.DrawRate <= 0 || that.Engine.DrawRate > 1 {
		errs = append(errs, fmt.Errorf("draw-rate %w: %v", ErrInvalidRate, that.Engine.DrawRate))
	}

	if that.Engine.DefaultWeight < 0 || that.Engine.DefaultWeight > 1 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidWeight, that.Engine.DefaultWeight))
	}

	if that.Training.FirstMark != 1 && that.Training.FirstMark != 2 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidFirstMark, that.Training.FirstMark))
	}

	if that.Training.Games < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidGames, that.Training.Games))
	}

	return errors.Join(errs...)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
