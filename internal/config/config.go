// Package config loads server settings from an optional JSON file with
// sensible defaults for local play.
package config

import (
	"github.com/spf13/viper"
)

// Load sets defaults and reads the config file from configDir when one
// exists. A missing file is not an error; explicit settings are.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("listenAddr", ":8080")

	viper.SetDefault("game.tickRate", 15)
	viper.SetDefault("game.commandCapacity", 256)
	viper.SetDefault("game.maxDurationSeconds", 300)

	viper.SetDefault("hub.sendQueueSize", 64)
	viper.SetDefault("hub.writeWaitSeconds", 10)
	viper.SetDefault("hub.pongWaitSeconds", 60)

	viper.SetDefault("lobby.pushIntervalSeconds", 3)

	viper.SetDefault("leaderboard.sqlitePath", "./warforge.db")
	viper.SetDefault("leaderboard.persist", true)

	viper.SetConfigName("warforge.cfg")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
