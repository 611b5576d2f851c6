package utils

import (
	"os"
	"strings"
)

// EnvOr reads key from the environment, falling back when it is unset or
// blank so a stray empty export doesn't wipe a default.
func EnvOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
