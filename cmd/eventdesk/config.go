package main

import (
	"fmt"
	"strings"

	"github.com/eventdesk/eventdesk/internal/logger"
	"github.com/eventdesk/eventdesk/internal/rabbit"
	internalhttp "github.com/eventdesk/eventdesk/internal/server/http"
	"github.com/eventdesk/eventdesk/internal/storagebuilder"
	"github.com/spf13/viper"
)

const envConfigPrefix = "$env:"

type Config struct {
	HTTPServer internalhttp.Config
	Logger     logger.Config
	Storage    storagebuilder.Config
	Rabbit     rabbit.Config
}

func NewConfig(configFile string) (Config, error) {
	config := Config{}
	viper.SetConfigFile(configFile)

	viper.SetDefault("httpServer.host", "0.0.0.0")
	viper.SetDefault("httpServer.port", "8000")
	viper.SetDefault("logger.level", "INFO")
	viper.SetDefault("storage.storageType", "memory")
	viper.SetDefault("storage.mongo.uri", "mongodb://127.0.0.1:27017")
	viper.SetDefault("storage.mongo.database", "eventdesk")
	viper.SetDefault("rabbit.port", "5672")
	viper.SetDefault("rabbit.queue", "eventdesk.rsvp")

	err := viper.ReadInConfig()
	if err != nil {
		return config, fmt.Errorf("failed to read config %q: %w", configFile, err)
	}
	keys := viper.AllKeys()
	for _, key := range keys {
		env := viper.GetString(key)
		if strings.HasPrefix(env, envConfigPrefix) {
			err := viper.BindEnv(key, env[len(envConfigPrefix):])
			if err != nil {
				return Config{}, fmt.Errorf("failed to prepare config: %w", err)
			}
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return config, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return config, nil
}
