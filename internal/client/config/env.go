package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/photobooth/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PHOTOBOOTH_"

// parseEnv overlays Config with PHOTOBOOTH_* environment variables.
//
// A dotenv file is loaded first: the one named by -env, or ./.env when it
// exists. Variables already present in the environment are not replaced.
// Unset variables leave the current values untouched.
//
// Panics when an explicitly requested dotenv file cannot be read or when a
// variable cannot be parsed.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
