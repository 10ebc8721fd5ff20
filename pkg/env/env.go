package env

import "os"

// Get reads an environment variable, substituting fallback when the variable
// is unset or empty. Used for knobs that must resolve before config loads.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
