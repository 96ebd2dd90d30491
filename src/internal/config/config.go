package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultConfigPath = "src/internal/config/cfg.yml"

type Configuration struct {
	Logs             LogsSettings     `mapstructure:"logs"`
	App              Application      `mapstructure:"app"`
	Database         Database         `mapstructure:"database"`
	Queue            QueueConfig      `mapstructure:"queue"`
	Redis            Redis            `mapstructure:"redis"`
	Security         SecuritySettings `mapstructure:"security"`
	Server           ServerSettings   `mapstructure:"server"`
	Cache            CacheConfig      `mapstructure:"cache"`
	ExternalServices ExternalServices `mapstructure:"external-services"`
	Webhook          WebhookConfig    `mapstructure:"webhook"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name     string `mapstructure:"name"`
	Timeout  int    `mapstructure:"timeout"`
	Version  string `mapstructure:"version"`
	HostLink string `mapstructure:"host-link"`
}

type Database struct {
	Url            string `mapstructure:"url"`
	DbName         string `mapstructure:"dbname"`
	UserCollection string `mapstructure:"user-collection"`
	Timeout        int    `mapstructure:"timeout"`
}

type QueueConfig struct {
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Url               string `mapstructure:"url"`
	Exchange          string `mapstructure:"exchange"`
	ExchangeType      string `mapstructure:"exchange-type"`
	ActivityRouteKey  string `mapstructure:"activity-routing-key"`
	WebhookRoutingKey string `mapstructure:"webhook-routing-key"`
	Durable           bool   `mapstructure:"durable"`
	AutoDelete        bool   `mapstructure:"auto-delete"`
	Internal          bool   `mapstructure:"internal"`
	NoWait            bool   `mapstructure:"no-wait"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type SecuritySettings struct {
	JwtKey string `mapstructure:"jwt-key"`
}

type ServerSettings struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	ReadTimeout  int    `mapstructure:"read-timeout"`
	WriteTimeout int    `mapstructure:"write-timeout"`
	IdleTimeout  int    `mapstructure:"idle-timeout"`
}

type CacheConfig struct {
	StatePrefix            string `mapstructure:"state-prefix"`
	SessionStateTTLMinutes int    `mapstructure:"session-state-ttl-minutes"`
	ClearBatchSize         int    `mapstructure:"clear-batch-size"`
	SessionStaleAfterHours int    `mapstructure:"session-stale-after-hours"`
}

type ExternalServices struct {
	Identity IdentityService `mapstructure:"identity"`
}

type IdentityService struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service-key"`
	Timeout    int    `mapstructure:"timeout"`
}

type WebhookConfig struct {
	TargetURL string `mapstructure:"target-url"`
	Secret    string `mapstructure:"secret"`
	Timeout   int    `mapstructure:"timeout"`
}

// Load reads the config file (CONFIG_PATH or the default location) and applies env overrides.
func Load() *Configuration {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		logrus.WithError(err).Panic("Error loading configuration")
	}
	return cfg
}

// LoadFrom reads the given yml file, applies environment overrides and fills defaults.
func LoadFrom(path string) (*Configuration, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	logrus.WithField("path", path).Info("Configuration loaded")

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnv(cfg *Configuration) {
	if mongoUri := os.Getenv("MONGODB_URL"); mongoUri != "" {
		cfg.Database.Url = mongoUri
	}

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.DbName = dbName
	}

	if redisUrl := os.Getenv("REDIS_URL"); redisUrl != "" {
		cfg.Redis.Url = redisUrl
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		} else {
			logrus.WithField("value", redisDB).Warn("Ignoring invalid REDIS_DB")
		}
	}

	if rabbitmqUrl := os.Getenv("RABBITMQ_URL"); rabbitmqUrl != "" {
		cfg.Queue.RabbitMQ.Url = rabbitmqUrl
	}

	if jwtKey := os.Getenv("JWT_KEY"); jwtKey != "" {
		cfg.Security.JwtKey = jwtKey
	}

	if identityUrl := os.Getenv("IDENTITY_URL"); identityUrl != "" {
		cfg.ExternalServices.Identity.URL = identityUrl
	}

	if serviceKey := os.Getenv("IDENTITY_SERVICE_KEY"); serviceKey != "" {
		cfg.ExternalServices.Identity.ServiceKey = serviceKey
	}

	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		cfg.Webhook.Secret = secret
	}

	if target := os.Getenv("WEBHOOK_TARGET_URL"); target != "" {
		cfg.Webhook.TargetURL = target
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
}

func applyDefaults(cfg *Configuration) {
	if cfg.App.Timeout <= 0 {
		cfg.App.Timeout = 10
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Cache.StatePrefix == "" {
		cfg.Cache.StatePrefix = "state"
	}
	if cfg.Cache.SessionStateTTLMinutes <= 0 {
		cfg.Cache.SessionStateTTLMinutes = 30
	}
	if cfg.Cache.ClearBatchSize <= 0 {
		cfg.Cache.ClearBatchSize = 100
	}
	if cfg.Cache.SessionStaleAfterHours <= 0 {
		cfg.Cache.SessionStaleAfterHours = 24
	}
	if cfg.ExternalServices.Identity.Timeout <= 0 {
		cfg.ExternalServices.Identity.Timeout = 10
	}
	if cfg.Webhook.Timeout <= 0 {
		cfg.Webhook.Timeout = 10
	}
	if cfg.Webhook.TargetURL == "" && cfg.App.HostLink != "" {
		cfg.Webhook.TargetURL = cfg.App.HostLink + "/api/v1/webhooks/receive"
	}
}

func read(path string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	var config Configuration

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
