// Environment variable access helpers.
package config

import (
	"os"
	"strconv"
)

// Exist returns true if the environment variable key is set.
func Exist(key string) bool {
	_, exist := os.LookupEnv(key)
	return exist
}

// GetEnv returns the value of a string environment variable.
func GetEnv(key string) string {
	val, _ := os.LookupEnv(key)
	return val
}

// GetIntEnv returns the value of a numeric environment variable, or 0 on
// parse failure.
func GetIntEnv(key string) int {
	val, _ := os.LookupEnv(key)
	v, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return v
}

// GetBoolEnv returns the value of a boolean environment variable, or false on
// parse failure.
func GetBoolEnv(key string) bool {
	val, _ := os.LookupEnv(key)
	v, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return v
}
