package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	SessionSecret  string
	DatabaseURL    string
	RedisURL       string
	CORSOrigin     string
	HealthAdminKey string
}

// Load loads config from env and an optional .env file. Defaults mirror the
// Express server: port 5000, session secret "dev_secret_key".
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "5000"
	}
	env := viper.GetString("NODE_ENV")
	if env == "" {
		env = viper.GetString("APP_ENV")
	}
	if env == "" {
		env = "development"
	}
	secret := viper.GetString("SESSION_SECRET")
	if secret == "" {
		secret = "dev_secret_key"
	}

	return &Config{
		Env:            env,
		Port:           port,
		SessionSecret:  secret,
		DatabaseURL:    viper.GetString("DATABASE_URL"),
		RedisURL:       viper.GetString("REDIS_URL"),
		CORSOrigin:     viper.GetString("CORS_ORIGIN"),
		HealthAdminKey: viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}
