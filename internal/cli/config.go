package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the CLI configuration.
type Config struct {
	ServerURL string `mapstructure:"server_url"`
	Token     string `mapstructure:"token"`
}

// InitConfig initializes viper, preferring an explicit --config path.
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".storyctl")
	}

	viper.SetDefault("server_url", "http://localhost:8080")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		// Config file found and loaded
	}
}

// SaveConfig saves the configuration to ~/.storyctl.yaml, returning the
// path it wrote to.
func SaveConfig(serverURL, token string) (string, error) {
	if serverURL != "" {
		viper.Set("server_url", serverURL)
	}
	if token != "" {
		viper.Set("token", token)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configPath := filepath.Join(home, ".storyctl.yaml")
	if err := viper.WriteConfigAs(configPath); err != nil {
		return "", err
	}
	return configPath, nil
}

// GetConfig returns the current configuration.
func GetConfig() *Config {
	return &Config{
		ServerURL: viper.GetString("server_url"),
		Token:     viper.GetString("token"),
	}
}
