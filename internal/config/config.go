package config

import (
	"fmt"
	"math_quiz_backend/internal/quiz"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Redis     RedisConfig
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// command-line flags
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port        string
	Mode        string
	WatchConfig bool   `mapstructure:"watch_config"`
	LogFile     string `mapstructure:"log_file"`
	// TimeZone names the location used for calendar-day streaks.
	TimeZone string `mapstructure:"time_zone"`
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	// Path is the SQLite file (or ":memory:") when Driver is "sqlite".
	Path  string
	Debug bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type AdminConfig struct {
	// PasswordHash is a bcrypt hash of the admin password.
	PasswordHash string `mapstructure:"password_hash"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type QuizConfig struct {
	DefaultCount    int                  `mapstructure:"default_count"`
	MaxCount        int                  `mapstructure:"max_count"`
	RecentResults   int                  `mapstructure:"recent_results"`
	LeaderboardSize int                  `mapstructure:"leaderboard_size"`
	SubmitLockTTL   time.Duration        `mapstructure:"submit_lock_ttl"`
	Topics          quiz.TopicThresholds `mapstructure:"topics"`
	// RandomSeed fixes question selection order when non-zero.
	RandomSeed int64 `mapstructure:"random_seed"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.log_file", "logs/app.log")
	v.SetDefault("server.time_zone", "Local")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)

	v.SetDefault("jwt.expire_hours", 72)

	v.SetDefault("quiz.default_count", 10)
	v.SetDefault("quiz.max_count", 100)
	v.SetDefault("quiz.recent_results", 10)
	v.SetDefault("quiz.leaderboard_size", 10)
	v.SetDefault("quiz.submit_lock_ttl", "10s")
	v.SetDefault("quiz.topics.min_attempts", 3)
	v.SetDefault("quiz.topics.strong_accuracy", 75)
	v.SetDefault("quiz.topics.weak_accuracy", 50)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MATH_QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.path", "DATABASE_PATH")

	// Secrets
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Quiz.MaxCount <= 0 {
		return fmt.Errorf("quiz.max_count must be positive, got %d", c.Quiz.MaxCount)
	}
	if c.Quiz.DefaultCount <= 0 || c.Quiz.DefaultCount > c.Quiz.MaxCount {
		return fmt.Errorf("quiz.default_count must be in [1, %d], got %d", c.Quiz.MaxCount, c.Quiz.DefaultCount)
	}
	if c.Quiz.Topics.Weak > c.Quiz.Topics.Strong {
		return fmt.Errorf("quiz.topics.weak_accuracy (%.2f) exceeds quiz.topics.strong_accuracy (%.2f)", c.Quiz.Topics.Weak, c.Quiz.Topics.Strong)
	}
	return nil
}

// Location Server.TimeZone, or time.Local
func (c *Config) Location() *time.Location {
	if c.Server.TimeZone == "" || c.Server.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Server.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
