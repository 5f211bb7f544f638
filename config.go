package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"github.com/cert-lv/sql2mongo/tdk"
)

/*
 * Structure to store all the service settings.
 * Check "sql2mongo.yaml.example" file for a detailed all fields description
 */
type Config struct {
	Environment string `yaml:"environment"`
	Dialect     string `yaml:"dialect"`
	Workers     int    `yaml:"workers"`

	Server struct {
		Host              string `yaml:"host"`
		Port              string `yaml:"port"`
		CertFile          string `yaml:"certFile"`
		KeyFile           string `yaml:"keyFile"`
		ReadTimeout       int    `yaml:"readTimeout"`
		ReadHeaderTimeout int    `yaml:"readHeaderTimeout"`
	} `yaml:"server"`

	Output struct {
		Format string `yaml:"format"`
		Stats  bool   `yaml:"stats"`
	} `yaml:"output"`

	Log struct {
		File       string        `yaml:"file"`
		MaxSize    int           `yaml:"maxSize"`
		MaxBackups int           `yaml:"maxBackups"`
		MaxAge     int           `yaml:"maxAge"`
		Level      zerolog.Level `yaml:"level"`
	} `yaml:"log"`
}

/*
 * Settings used when no configuration file exists nearby,
 * so a batch translation works out of the box
 */
func defaultConfig() *Config {
	c := &Config{
		Environment: "dev",
		Dialect:     "sql",
		Workers:     4,
	}

	c.Server.Host = "0.0.0.0"
	c.Server.Port = "8000"
	c.Server.ReadTimeout = 5
	c.Server.ReadHeaderTimeout = 5

	c.Output.Format = "json"

	c.Log.File = "sql2mongo.log"
	c.Log.MaxSize = 100
	c.Log.MaxBackups = 7
	c.Log.MaxAge = 14
	c.Log.Level = zerolog.InfoLevel

	return c
}

/*
 * Load configuration from a YAML file.
 *
 * Service searches for the "./sql2mongo.yaml" file by default,
 * however, "CONFIG" environment variable can be set to use a different file
 */
func loadConfig() error {
	path := "sql2mongo.yaml"

	if os.Getenv("CONFIG") != "" {
		path = os.Getenv("CONFIG")
	}

	config = defaultConfig()

	buffer, err := loadFileIntoString(path)
	if err != nil {
		// Defaults are enough when the default file is simply absent.
		// An explicitly requested file must exist
		if os.IsNotExist(err) && os.Getenv("CONFIG") == "" {
			return nil
		}

		return fmt.Errorf("Failed to open configuration file '%s': %s", path, err.Error())
	}

	err = yaml.Unmarshal([]byte(buffer), config)
	if err != nil {
		return fmt.Errorf("Invalid configuration YAML file '%s': %s", path, err.Error())
	}

	if !tdk.StringSliceContains([]string{"json", "table"}, config.Output.Format) {
		return fmt.Errorf("Unexpected output format in '%s': '%s', \"json\" or \"table\" expected", path, config.Output.Format)
	}

	return nil
}
