package main

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setDefaults() {
	viper.SetDefault("unleash_path", "http://localhost:4242/api")
	viper.SetDefault("unleash.enabled", false)
	viper.SetDefault("service_name", "fes-frontend")
	viper.SetDefault("app_version", "dev")
	viper.SetDefault("listen_port", "3000")
	viper.SetDefault("environment", "development")

	viper.SetDefault("orchestration_url", "http://localhost:5500")
	viper.SetDefault("orchestration_timeout", 30*time.Second)

	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.cookie_name", "__session")
	viper.SetDefault("session.ttl", 4*time.Hour)
	viper.SetDefault("session.secure", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("postgres.dsn", "postgres://postgres@localhost:5432/fes?sslmode=disable")
	viper.SetDefault("postgres.sweep_interval", 15*time.Minute)

	viper.SetDefault("auth.disabled", false)
	viper.SetDefault("auth.cookie_name", "fes_id_token")

	viper.SetDefault("features."+featureLandingsUpload, true)
	viper.SetDefault("features."+featureCopyCertificate, true)
	viper.SetDefault("features."+featureArrivalTransport, false)

	viper.SetDefault("upload.region", "eu-west-2")
	viper.SetDefault("upload.max_bytes", 10<<20)
	viper.SetDefault("upload.max_rows", 100)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

// loadConfig reads config.yaml if present and overlays FES_ prefixed
// environment variables
func loadConfig(file string) error {
	setDefaults()
	viper.SetEnvPrefix("fes")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/app")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	return validateConfig()
}

func validateConfig() error {
	switch viper.GetString("session.store") {
	case "memory", "redis", "postgres":
	default:
		return errors.New("session.store must be one of memory, redis or postgres")
	}
	if viper.GetString("session.store") == "postgres" && viper.GetDuration("postgres.sweep_interval") <= 0 {
		return errors.New("postgres.sweep_interval must be positive")
	}
	if viper.GetString("environment") != "production" {
		return nil
	}
	if !viper.GetBool("session.secure") {
		return errors.New("session.secure must be set in production")
	}
	if viper.GetBool("auth.disabled") {
		return errors.New("auth.disabled is not allowed in production")
	}
	if viper.GetString("auth.secret") == "" && viper.GetString("auth.public_key") == "" {
		return errors.New("auth.secret or auth.public_key must be set in production")
	}
	return nil
}
