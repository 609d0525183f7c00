package securerpc

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadConfig reads a SecurityConfig from a TOML file, for callers that
// keep their algorithm defaults outside the binary:
//
//	algorithm = "aes-256-gcm"
//	key_size_bits = 256
//
//	[options]
//	iterations = "210000"
func LoadConfig(path string) (SecurityConfig, error) {
	var cfg SecurityConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return SecurityConfig{}, fmt.Errorf("securerpc: failed to read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return SecurityConfig{}, err
	}
	return cfg, nil
}
