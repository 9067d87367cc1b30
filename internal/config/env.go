// internal/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// getEnv returns the trimmed value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// envInt parses a positive integer.  Anything else yields def.
func envInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// envBool accepts the spellings strconv.ParseBool does.
func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return b
}

// MaskPresent reports whether a secret is set without printing it.
func MaskPresent(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(missing)"
	}
	return "(present)"
}
