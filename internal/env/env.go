package env

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	AppConfig  AppConfig
	NodeConfig NodeConfig
}

type AppConfig struct {
	Name          string
	Env           string
	Port          uint
	LogFormat     string
	LogLevel      string
	SentryDSN     string
	MetricsPrefix string
	BalanceAPIURL string
}

// NodeConfig points at the bitcoind JSON-RPC endpoint.
type NodeConfig struct {
	User   string
	Pass   string
	Host   string
	Port   uint
	Scheme string
}

const (
	DefaultRPCHost   = `127.0.0.1`
	DefaultRPCPort   = 8332
	DefaultRPCScheme = `http`
)

var (
	ErrUnsupportedScheme = errors.New("unsupported rpc scheme")
	ErrInvalidPort       = errors.New("invalid port")
)

var (
	cfg Config

	onceDefaultClient sync.Once
)

func Read(configPath string) (*Config, error) {
	var err error

	onceDefaultClient.Do(func() {
		v := viper.New()
		v.SetConfigType("env")

		if len(configPath) != 0 {
			v.SetConfigFile(configPath)
		} else {
			v.AddConfigPath(".")
			v.SetConfigFile(".env")
		}

		v.SetDefault("APP_NAME", "btc-gateway")
		v.SetDefault("ENV", "local")
		v.SetDefault("PORT", 8080)
		v.SetDefault("LOG_FORMAT", "text")
		v.SetDefault("LOG_LEVEL", "INFO")
		v.SetDefault("METRICS_PREFIX", "btc_gateway")
		v.SetDefault("BALANCE_API_URL", "https://blockchain.info/q/addressbalance")
		v.SetDefault("BTC_RPC_HOST", DefaultRPCHost)
		v.SetDefault("BTC_RPC_PORT", DefaultRPCPort)
		v.SetDefault("BTC_RPC_SCHEME", DefaultRPCScheme)

		v.AutomaticEnv()
		if viperErr := v.ReadInConfig(); viperErr != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(viperErr, &notFound) && !errors.Is(viperErr, fs.ErrNotExist) {
				err = viperErr
				return
			}
		}

		cfg = Config{
			AppConfig: AppConfig{
				Name:          v.GetString("APP_NAME"),
				Env:           v.GetString("ENV"),
				Port:          v.GetUint("PORT"),
				LogFormat:     v.GetString("LOG_FORMAT"),
				LogLevel:      v.GetString("LOG_LEVEL"),
				SentryDSN:     v.GetString("SENTRY_DSN"),
				MetricsPrefix: v.GetString("METRICS_PREFIX"),
				BalanceAPIURL: v.GetString("BALANCE_API_URL"),
			},
			NodeConfig: NodeConfig{
				User:   v.GetString("BTC_RPC_USER"),
				Pass:   v.GetString("BTC_RPC_PASS"),
				Host:   v.GetString("BTC_RPC_HOST"),
				Port:   v.GetUint("BTC_RPC_PORT"),
				Scheme: v.GetString("BTC_RPC_SCHEME"),
			},
		}

		err = cfg.Validate()
	})

	return &cfg, err
}

func (c *Config) Validate() error {
	if c.NodeConfig.Scheme != DefaultRPCScheme {
		return fmt.Errorf("%w: %q, only %s is supported", ErrUnsupportedScheme, c.NodeConfig.Scheme, DefaultRPCScheme)
	}

	if c.NodeConfig.Port == 0 || c.NodeConfig.Port > 65535 {
		return fmt.Errorf("%w: BTC_RPC_PORT=%d", ErrInvalidPort, c.NodeConfig.Port)
	}

	if c.AppConfig.Port == 0 || c.AppConfig.Port > 65535 {
		return fmt.Errorf("%w: PORT=%d", ErrInvalidPort, c.AppConfig.Port)
	}

	return nil
}
