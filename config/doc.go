// Package config loads the run configuration of rivet.
//
// It uses Viper to read a YAML, TOML or JSON file, godotenv to load a .env
// file into the environment, and RIVET_-prefixed environment variables to
// override individual keys.
//
// # Usage
//
//	var cfg config.RunConfig
//	if err := config.LoadConfig("rivet", &cfg, config.WithConfigFile(path)); err != nil {
//		return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// RIVET_WORK_DIR=/scratch/build overrides work_dir, and
// RIVET_LOGGING_LEVEL=debug overrides logging.level.
package config
