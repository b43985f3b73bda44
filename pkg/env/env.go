package env

import "os"

// Get returns the value of the environment variable or the fallback when unset.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// IsSet reports whether the environment variable has a non-empty value.
func IsSet(key string) bool {
	return os.Getenv(key) != ""
}
