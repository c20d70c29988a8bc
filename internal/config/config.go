package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Discovery DiscoveryConfig
	Ranking   RankingConfig
	Mapbox    MapboxConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	RankingCacheTTL     time.Duration
	LeaderboardCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

// DiscoveryConfig - параметры кластеризации и жизненного цикла сайтов.
// Пороги гистерезиса и окно дормантности - эмпирические значения,
// вынесены в конфигурацию вместо жёстко зашитых констант.
type DiscoveryConfig struct {
	Interval            time.Duration
	ContentFetchLimit   int
	MinPoints           int
	MaxDistanceMeters   float64
	MinWeight           float64
	TimeDecayFactor     float64
	CenterShiftFraction float64
	RadiusResizeMeters  float64
	DormancyWindow      time.Duration
}

type RankingConfig struct {
	Interval     time.Duration
	WindowDays   int
	BatchWorkers int
}

type MapboxConfig struct {
	Enabled        bool
	BaseURL        string
	AccessToken    string
	RequestTimeout int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			RankingCacheTTL:     time.Duration(viper.GetInt("RANKING_CACHE_TTL")) * time.Second,
			LeaderboardCacheTTL: time.Duration(viper.GetInt("LEADERBOARD_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Discovery: DiscoveryConfig{
			Interval:            time.Duration(viper.GetInt("DISCOVERY_INTERVAL")) * time.Second,
			ContentFetchLimit:   viper.GetInt("DISCOVERY_CONTENT_FETCH_LIMIT"),
			MinPoints:           viper.GetInt("DISCOVERY_MIN_POINTS"),
			MaxDistanceMeters:   viper.GetFloat64("DISCOVERY_MAX_DISTANCE"),
			MinWeight:           viper.GetFloat64("DISCOVERY_MIN_WEIGHT"),
			TimeDecayFactor:     viper.GetFloat64("DISCOVERY_TIME_DECAY_FACTOR"),
			CenterShiftFraction: viper.GetFloat64("DISCOVERY_CENTER_SHIFT_FRACTION"),
			RadiusResizeMeters:  viper.GetFloat64("DISCOVERY_RADIUS_RESIZE_METERS"),
			DormancyWindow:      time.Duration(viper.GetInt("DISCOVERY_DORMANCY_WINDOW")) * time.Second,
		},
		Ranking: RankingConfig{
			Interval:     time.Duration(viper.GetInt("RANKING_INTERVAL")) * time.Second,
			WindowDays:   viper.GetInt("RANKING_WINDOW_DAYS"),
			BatchWorkers: viper.GetInt("RANKING_BATCH_WORKERS"),
		},
		Mapbox: MapboxConfig{
			Enabled:        viper.GetBool("MAPBOX_ENABLED"),
			BaseURL:        viper.GetString("MAPBOX_BASE_URL"),
			AccessToken:    viper.GetString("MAPBOX_ACCESS_TOKEN"),
			RequestTimeout: viper.GetInt("MAPBOX_REQUEST_TIMEOUT"),
		},
	}

	// Set default values if not provided
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "site-activity-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Cache.RankingCacheTTL == 0 {
		cfg.Cache.RankingCacheTTL = 10 * time.Minute
	}
	if cfg.Cache.LeaderboardCacheTTL == 0 {
		cfg.Cache.LeaderboardCacheTTL = 5 * time.Minute
	}
	if cfg.Discovery.Interval == 0 {
		cfg.Discovery.Interval = 6 * time.Hour
	}
	if cfg.Discovery.ContentFetchLimit == 0 {
		cfg.Discovery.ContentFetchLimit = 10000
	}
	if cfg.Discovery.MinPoints == 0 {
		cfg.Discovery.MinPoints = 3
	}
	if cfg.Discovery.MaxDistanceMeters == 0 {
		cfg.Discovery.MaxDistanceMeters = 500
	}
	if cfg.Discovery.MinWeight == 0 {
		cfg.Discovery.MinWeight = 5
	}
	if cfg.Discovery.TimeDecayFactor == 0 {
		cfg.Discovery.TimeDecayFactor = 0.1
	}
	if cfg.Discovery.CenterShiftFraction == 0 {
		cfg.Discovery.CenterShiftFraction = 0.3
	}
	if cfg.Discovery.RadiusResizeMeters == 0 {
		cfg.Discovery.RadiusResizeMeters = 50
	}
	if cfg.Discovery.DormancyWindow == 0 {
		cfg.Discovery.DormancyWindow = 30 * 24 * time.Hour
	}
	if cfg.Ranking.Interval == 0 {
		cfg.Ranking.Interval = 2 * time.Hour
	}
	if cfg.Ranking.WindowDays == 0 {
		cfg.Ranking.WindowDays = 30
	}
	if cfg.Ranking.BatchWorkers == 0 {
		cfg.Ranking.BatchWorkers = 4
	}
	if cfg.Mapbox.BaseURL == "" {
		cfg.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	if cfg.Mapbox.RequestTimeout == 0 {
		cfg.Mapbox.RequestTimeout = 10
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
