package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	d "github.com/invertedv/claimsprep/df"
	_ "github.com/jackc/pgx/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// dbEnv is the database connection read from the environment.
type dbEnv struct {
	Dialect  string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// loadDBEnv reads the CLAIMS_* variables. envFile, if it exists, is loaded first; variables already set
// in the environment take precedence over it.
func loadDBEnv(envFile string) (*dbEnv, error) {
	if envFile != "" {
		if _, e := os.Stat(envFile); e == nil {
			if ex := godotenv.Load(envFile); ex != nil {
				return nil, fmt.Errorf("loading %s: %w", envFile, ex)
			}
		}
	}

	env := &dbEnv{
		Dialect:  getEnv("CLAIMS_DIALECT", "clickhouse"),
		Host:     getEnv("CLAIMS_HOST", ""),
		User:     getEnv("CLAIMS_USER", ""),
		Password: getEnv("CLAIMS_PASSWORD", ""),
		Database: getEnv("CLAIMS_DB", "default"),
	}

	if env.Host == "" {
		return nil, fmt.Errorf("CLAIMS_HOST is not set")
	}

	defPort := 9000
	if env.Dialect == "postgres" {
		defPort = 5432
	}

	var e error
	if env.Port, e = strconv.Atoi(getEnv("CLAIMS_PORT", strconv.Itoa(defPort))); e != nil {
		return nil, fmt.Errorf("CLAIMS_PORT: %w", e)
	}

	return env, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return def
}

// connect opens the database and wraps it in a Dialect.
func connect(ctx context.Context, env *dbEnv) (*d.Dialect, error) {
	var (
		db *sql.DB
		e  error
	)

	switch env.Dialect {
	case "clickhouse":
		db = clickhouse.OpenDB(
			&clickhouse.Options{
				Addr: []string{fmt.Sprintf("%s:%d", env.Host, env.Port)},
				Auth: clickhouse.Auth{
					Database: env.Database,
					Username: env.User,
					Password: env.Password,
				},
				DialTimeout: 300 * time.Second,
				Compression: &clickhouse.Compression{
					Method: clickhouse.CompressionLZ4,
					Level:  0,
				},
			})

		if e = db.PingContext(ctx); e != nil {
			_ = db.Close()
			return nil, fmt.Errorf("connecting to clickhouse: %w", e)
		}
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", env.User, env.Password, env.Host, env.Port, env.Database)

		var dbx *sqlx.DB
		if dbx, e = sqlx.ConnectContext(ctx, "pgx", dsn); e != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", e)
		}

		db = dbx.DB
	default:
		return nil, fmt.Errorf("unsupported dialect %s", env.Dialect)
	}

	return d.NewDialect(env.Dialect, db)
}
