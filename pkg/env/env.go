// Package env reads raw environment variables for the few settings that must
// resolve before the typed QueueDesk config is loaded, such as the log format.
package env

import "os"

// Get returns the environment variable's value, or fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
