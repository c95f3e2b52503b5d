package database

import (
	"fmt"
	"net/url"

	"branhox/internal/config"
)

// Config holds database configuration
type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(app *config.Config) *Config {
	return &Config{
		Host:          app.DBHost,
		Port:          app.DBPort,
		User:          app.DBUser,
		Password:      app.DBPassword,
		DBName:        app.DBName,
		SSLMode:       app.DBSSLMode,
		MigrationsDir: app.MigrationsDir,
	}
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// form expected by golang-migrate.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// MigrationsSource returns the file:// source URL for golang-migrate.
func (c *Config) MigrationsSource() string {
	dir := c.MigrationsDir
	if dir == "" {
		dir = "migrations"
	}
	return "file://" + dir
}
