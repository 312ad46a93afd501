// Package config loads YAML configuration and .env files for restkit
// binaries.
//
// LoadConfig resolves a config file and an env file (explicit paths win,
// otherwise a short list of conventional locations is searched), binds every
// environment variable under several nested key spellings and unmarshals
// the result through mapstructure tags:
//
//	var cfg struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Resources map[string]ResourceConfig `mapstructure:"resources"`
//	}
//	err := config.LoadConfig("restctl", &cfg, config.WithConfigFile(path))
//
// LOGGING_LEVEL=debug therefore overrides logging.level from the file.
package config
