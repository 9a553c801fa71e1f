package config

import (
	"log"
	"os"
)

// MustEnv stops the process when key is unset.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env %s", key)
	}
	return v
}

func MustSecret(key string, minLen int) []byte {
	v := MustEnv(key)
	if len(v) < minLen {
		log.Fatalf("env %s must be at least %d bytes", key, minLen)
	}
	return []byte(v)
}
