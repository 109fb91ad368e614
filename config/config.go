package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string

	ApiServer    ServerConfigs
	ProxyServer  ServerConfigs
	EngineServer ServerConfigs

	Database     DatabaseConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
	Auth         AuthConfigs
	Game         GameConfigs
	Bitcoin      BitcoinConfigs
	Notification NotificationConfigs
}

type ServerConfigs struct {
	Host string
	Port string

	// MaxLimit and DefaultLimit bound the page size of list APIs.
	MaxLimit     int
	DefaultLimit int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string

	// NotificationTopic carries every row-change event from the api service
	// to the notification engine.
	NotificationTopic string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs

	// Farcaster is the hosted identity-token verification service. A login
	// request carries a token issued by the mini-app host; the backend never
	// verifies those tokens itself.
	Farcaster FarcasterConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type FarcasterConfigs struct {
	VerifyURL string
}

type GameConfigs struct {
	// MaxGuessValue is the highest accepted transaction-count prediction.
	MaxGuessValue int

	// RoundDuration is how long a round accepts guesses after it opens.
	RoundDuration time.Duration

	ChatRetention  time.Duration
	ChatMaxLength  int
	ChatRateLimit  int
	ChatRateWindow time.Duration
}

type BitcoinConfigs struct {
	// ApiEndpoints are esplora-compatible REST hosts, tried in random order.
	ApiEndpoints []string

	PollInterval time.Duration
}

type NotificationConfigs struct {
	// EngineWSServer is the websocket endpoint proxies dial to receive the
	// event stream from the engine.
	EngineWSServer string
}

// Load reads the TOML file at path and applies environment overrides for the
// values that differ between deployments.
func Load(path string) (*Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	overrideEnv(&cfg.Env, "ENV")
	overrideEnv(&cfg.ApiServer.Port, "API_PORT")
	overrideEnv(&cfg.ProxyServer.Port, "PROXY_PORT")
	overrideEnv(&cfg.EngineServer.Port, "ENGINE_PORT")
	overrideEnv(&cfg.Database.Host, "MYSQL_HOST")
	overrideEnv(&cfg.Database.Password, "MYSQL_PASSWORD")
	overrideEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideEnv(&cfg.Kafka.Addr, "KAFKA_ADDR")
	overrideEnv(&cfg.Auth.TokenSecret, "TOKEN_SECRET")

	return &cfg, nil
}

func overrideEnv(target *string, name string) {
	if v := os.Getenv(name); v != "" {
		*target = v
	}
}
