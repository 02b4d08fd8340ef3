package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Etcd       EtcdConfig       `mapstructure:"etcd"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Mail       MailConfig       `mapstructure:"mail"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
	LeaseTTL    int64         `mapstructure:"lease_ttl"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type MailConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	SenderName  string `mapstructure:"sender_name"`
	SenderEmail string `mapstructure:"sender_email"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// SettlementConfig holds the explicit policy switches for the pay and
// deliver transitions. Defaults favor correctness over source
// compatibility; flip them to reproduce the legacy behavior.
type SettlementConfig struct {
	// StrictStock refuses a line item whose quantity exceeds the
	// remaining stock. When false the decrement may go negative.
	StrictStock bool `mapstructure:"strict_stock"`
	// IdempotentPayments rejects paying an already-paid order instead
	// of re-applying stock decrements and re-sending the receipt.
	IdempotentPayments bool `mapstructure:"idempotent_payments"`
	// RequirePaidDelivery rejects delivering an unpaid order.
	RequirePaidDelivery bool `mapstructure:"require_paid_delivery"`
	// NotifyTimeout bounds the asynchronous receipt dispatch.
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("settlement.idempotent_payments", true)
	v.SetDefault("settlement.require_paid_delivery", true)
	v.SetDefault("settlement.notify_timeout", "10s")
	v.SetDefault("etcd.lease_ttl", 30)
	v.SetDefault("auth.token_ttl", "72h")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
