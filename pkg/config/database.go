package config

import (
	"errors"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:depotvente.db?cache=shared&_foreign_keys=on"
)

// DBConfig takes either a full DSN or discrete postgres settings.
type DBConfig struct {
	DSN    string `envconfig:"DEPOTVENTE_DB_DSN"`
	Driver string `envconfig:"DEPOTVENTE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DEPOTVENTE_DB_HOST"`
	Port     int    `envconfig:"DEPOTVENTE_DB_PORT" default:"5432"`
	User     string `envconfig:"DEPOTVENTE_DB_USER"`
	Password string `envconfig:"DEPOTVENTE_DB_PASSWORD"`
	Name     string `envconfig:"DEPOTVENTE_DB_NAME"`
	SSLMode  string `envconfig:"DEPOTVENTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEPOTVENTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEPOTVENTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEPOTVENTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEPOTVENTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"DEPOTVENTE_DB_SLOW_QUERY" default:"250ms"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// resolveDSN fills DSN when only the discrete settings were given. sqlite
// falls back to a local file.
func (db *DBConfig) resolveDSN() error {
	switch {
	case db.DSN != "":
		return nil
	case db.IsSQLite():
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	var missing []string
	for env, v := range map[string]string{
		"DEPOTVENTE_DB_HOST": db.Host,
		"DEPOTVENTE_DB_USER": db.User,
		"DEPOTVENTE_DB_NAME": db.Name,
	} {
		if v == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return errors.New("DEPOTVENTE_DB_DSN or " + strings.Join(missing, ", ") + " required")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.User(db.User),
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	}
	if db.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {db.SSLMode}}.Encode()
	}
	db.DSN = u.String()
	return nil
}
