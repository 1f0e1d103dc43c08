// Package config loads the process configuration of a trueweb server.
//
// Values come from environment variables first (caarlos0/env struct tags,
// defaults included). When CONFIG_FILE names a YAML file, its keys are
// decoded on top, so a file can pin values regardless of the environment.
// Unknown YAML keys are rejected.
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	log := logger.NewWithConfig(cfg.Log)
package config
