// Package postgres opens the PostgreSQL database engine.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
)

const DriverName = "postgres"

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsConnString reports whether target looks like a PostgreSQL connection
// string rather than a database file path.
func IsConnString(target string) bool {
	if isURL(target) {
		return true
	}
	for _, part := range strings.Fields(target) {
		key, _, ok := strings.Cut(part, "=")
		if ok && (strings.EqualFold(key, "host") || strings.EqualFold(key, "dbname")) {
			return true
		}
	}
	return false
}

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// WithSearchPath points the connection at the application's schema unless a
// search_path is already configured.
func WithSearchPath(connStr string) string {
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if hasParam(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// hasParam reports whether a DSN-style connection string has the given key
// (case-insensitive).
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// hasSSLMode supports both URL-style and DSN-style connection strings.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a valid URI or DSN and that it
// does not carry a password. Credentials belong in the environment or the
// keyring.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if isURL(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if hasParam(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

// Open connects to the server, creates the application schema if needed and
// returns a pooled handle scoped to it.
func Open(connStr string) (*sql.DB, error) {
	connStr = WithSearchPath(connStr)

	db, err := sql.Open(DriverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(connStr) {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// IsUniqueViolation reports whether err is a unique_violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
