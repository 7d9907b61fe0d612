// Package env wraps environment variable access with dotenv loading and
// typed getters.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadFromFile loads variables from the named dotenv file into the process
// environment. Variables already set in the environment take precedence.
func LoadFromFile(path string) error {
	return godotenv.Load(path)
}

// GetAsString returns the value of the named variable, or "" if unset.
func GetAsString(key string) string {
	return os.Getenv(key)
}

// GetAsStringElseAlt returns the value of the named variable, or alt if the
// variable is unset or empty.
func GetAsStringElseAlt(key, alt string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return alt
}

// GetAsIntElseAlt returns the named variable parsed as an int, or alt if
// the variable is unset, empty, or not a number.
func GetAsIntElseAlt(key string, alt int) int {
	v := os.Getenv(key)
	if v == "" {
		return alt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return alt
	}
	return n
}
