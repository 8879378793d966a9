package value

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce = &sync.Once{}

// PreloadDotEnv loads ./.env into the process environment the first time it
// is called. Variables that are already set win, and a missing or unreadable
// .env is ignored.
func PreloadDotEnv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// lookupEnv is the default env("KEY") source: the process environment after
// ./.env has been preloaded.
func lookupEnv(key string) (string, bool) {
	PreloadDotEnv()
	return os.LookupEnv(key)
}
