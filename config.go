package ninjacatalog

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// configService reads settings from a .env file and the process environment.
type configService struct {
	v *viper.Viper
}

func newConfig() *configService {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("Error reading Config file: %v\n", err)
		}
	}

	return &configService{v: v}
}

func (c *configService) EnvString(envName string, defaultValue ...string) string {
	if value := c.v.Get(envName); value != nil && fmt.Sprint(value) != "" {
		return fmt.Sprint(value)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *configService) EnvInt(envName string, defaultValue int) int {
	if c.v.Get(envName) == nil {
		return defaultValue
	}
	return c.v.GetInt(envName)
}

// Add overrides a configuration value at runtime.
func (c *configService) Add(name string, configuration interface{}) {
	c.v.Set(name, configuration)
}

// IsSet reports whether the key has a non-empty value.
func (c *configService) IsSet(name string) bool {
	value := c.v.Get(name)
	return value != nil && fmt.Sprint(value) != ""
}

func (c *configService) GetBool(path string) bool {
	return c.v.GetBool(path)
}
