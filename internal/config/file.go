package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/BurntSushi/toml"
)

// LoadFile reads a TOML file over the defaults, then applies environment
// overrides and validates the result. A missing file is not an error; the
// defaults and environment are used as-is.
//
//	[arena]
//	width = 360
//	height = 600
//
//	[server]
//	port = 3000
//	broadcast_interval = "33ms"
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("💡 Config file %s not found, using defaults", path)
		case err != nil:
			return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				log.Printf("⚠️ Unknown config keys in %s: %v", path, undecoded)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
