package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// MustGetEnvAsString reads name or panics with a structured log line.
func MustGetEnvAsString(ctx context.Context, name string) string {
	s, exists := os.LookupEnv(name)
	if !exists {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "environment variable missing", "variable_name", name)
		panic(fmt.Sprintf("missing environment variable [%s]", name))
	}
	return s
}

// GetEnvAsStringOr reads name, or returns def if unset.
func GetEnvAsStringOr(name, def string) string {
	if s, exists := os.LookupEnv(name); exists {
		return s
	}
	return def
}

// MustGetEnvAsInt reads name as an int or panics.
func MustGetEnvAsInt(ctx context.Context, name string) int {
	s := MustGetEnvAsString(ctx, name)

	v, err := strconv.Atoi(s)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to parse environment variable as int",
			"variable_name", name, "variable_value", s)
		panic(fmt.Sprintf("unable to parse environment variable as int [%s]: %s", name, s))
	}
	return v
}

// GetEnvAsIntOr reads name as an int, or returns def if unset or malformed.
func GetEnvAsIntOr(name string, def int) int {
	s, exists := os.LookupEnv(name)
	if !exists {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// MustGetEnvAsBoolean reads name as "true"/"false" or panics.
func MustGetEnvAsBoolean(ctx context.Context, name string) bool {
	s := MustGetEnvAsString(ctx, name)

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	default:
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to parse environment variable as boolean ('true'/'false')",
			"variable_name", name, "variable_value", s)
		panic(fmt.Sprintf("unable to parse environment variable as boolean ('true'/'false') [%s]: %s", name, s))
	}
}

// MustGetEnvAsDuration reads name as a time.Duration or panics.
func MustGetEnvAsDuration(ctx context.Context, name string) time.Duration {
	s := MustGetEnvAsString(ctx, name)

	duration, err := time.ParseDuration(s)
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to parse environment variable as duration",
			"variable_name", name, "variable_value", s)
		panic(fmt.Sprintf("unable to parse environment variable as duration [%s]: %s", name, s))
	}
	return duration
}
