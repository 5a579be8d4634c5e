package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		// Path of the optional sqlite seed file. Empty means start with an
		// empty collection.
		Path string
	}
	Pagination struct {
		DefaultLimit int
		MaxLimit     int
	}
	Metrics struct {
		Enabled   bool
		Namespace string
		AppLabel  string
	}
	Auth struct {
		// JWTSecret enables bearer auth on mutating routes when non-empty.
		JWTSecret       string
		APIPassword     string
		TokenTTLMinutes int
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "")
	v.SetDefault("pagination.defaultlimit", 10)
	v.SetDefault("pagination.maxlimit", 100)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "roster")
	v.SetDefault("metrics.applabel", "user-roster")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.apipassword", "")
	v.SetDefault("auth.tokenttlminutes", 60)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
