package config

import (
	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the process environment. Variables that are already set
// are left alone. LoadConfiguration and LoadFile preload ./.env on their own
// through value.PreloadDotEnv.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
