package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port       string `mapstructure:"port"`
		CORSOrigin string `mapstructure:"cors_origin"`
	} `mapstructure:"server"`
	Auth  AuthConfig  `mapstructure:"auth"`
	Media MediaConfig `mapstructure:"media"`
}

// AuthConfig carries everything the auth service needs to mint and verify
// tokens. It is handed to the service at construction, so the token code
// never reads global state and tests can build one with fixture secrets.
type AuthConfig struct {
	AccessTokenSecret  string `mapstructure:"access_token_secret"`
	RefreshTokenSecret string `mapstructure:"refresh_token_secret"`
	AccessTokenTTLMin  int    `mapstructure:"access_token_ttl_minutes"`
	RefreshTokenTTLDay int    `mapstructure:"refresh_token_ttl_days"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
}

func (c AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMin) * time.Minute
}

func (c AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLDay) * 24 * time.Hour
}

// MediaConfig points at the S3-compatible bucket that stores avatars and
// cover images. BaseURL is the public prefix returned to clients.
type MediaConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
