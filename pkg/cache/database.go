package cache

import (
	"embed"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/near/near-jsonrpc-go/pkg/log"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

// Config selects the cache database.
//
// To connect to Postgres, set Driver to "postgres" and URL to a connection
// string. If Schema is set it is created when missing and used as the
// search path.
//
// To use sqlite, set Driver to "sqlite". Name is the database file; when it
// is empty a private in-memory database is used.
type Config struct {
	Driver string `env:"NEAR_RPC_CACHE_DRIVER" env-default:"sqlite" yaml:"driver" validate:"oneof=sqlite postgres"`
	Name   string `env:"NEAR_RPC_CACHE_NAME" env-default:"" yaml:"name"`
	URL    string `env:"NEAR_RPC_CACHE_URL" env-default:"" yaml:"url" validate:"required_if=Driver postgres"`
	Schema string `env:"NEAR_RPC_CACHE_SCHEMA" env-default:"" yaml:"schema" validate:"omitempty,alphanum"`
}

// Open connects to the database described by cfg and prepares the cache
// table.
func Open(cfg Config, lg log.Logger) (*Store, error) {
	if lg == nil {
		lg = log.NewNoopLogger()
	}
	lg = lg.WithName("cache")

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = connectToPostgresql(cfg, lg)
	case "sqlite", "":
		db, err = connectToSqlite(cfg, lg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return NewStore(db), nil
}

func connectToPostgresql(cfg Config, lg log.Logger) (*gorm.DB, error) {
	lg.Info("connecting to Postgresql")
	if err := ensurePostgresqlSchema(cfg, lg); err != nil {
		return nil, errors.Wrap(err, "failed to ensure Postgresql schema")
	}

	dsn, err := postgresqlDSN(cfg)
	if err != nil {
		return nil, err
	}
	if err := migratePostgres(dsn, lg); err != nil {
		return nil, errors.Wrap(err, "failed to apply Postgresql migrations")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Postgresql")
	}
	return db, nil
}

func connectToSqlite(cfg Config, lg log.Logger) (*gorm.DB, error) {
	var dsn string
	if cfg.Name != "" {
		lg.Info("connecting to sqlite", "file", cfg.Name)
		dsn = fmt.Sprintf("file:%s?cache=shared", cfg.Name)
	} else {
		lg.Info("connecting to in-memory sqlite")
		dsn = fmt.Sprintf("file:nearrpc-%s?mode=memory&cache=shared", uuid.NewString())
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite")
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate sqlite")
	}
	lg.Debug("successfully auto-migrated")

	return db, nil
}

// postgresqlDSN adds the configured schema to the search path of cfg.URL.
// Both URL and key=value connection strings are accepted.
func postgresqlDSN(cfg Config) (string, error) {
	if cfg.URL == "" {
		return "", errors.New("postgres driver requires a connection url")
	}
	if cfg.Schema == "" {
		return cfg.URL, nil
	}

	if strings.HasPrefix(cfg.URL, "postgres://") || strings.HasPrefix(cfg.URL, "postgresql://") {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return "", errors.Wrap(err, "invalid connection url")
		}
		q := u.Query()
		q.Set("search_path", cfg.Schema)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
	return fmt.Sprintf("%s search_path=%s", cfg.URL, cfg.Schema), nil
}

func ensurePostgresqlSchema(cfg Config, lg log.Logger) error {
	if cfg.Schema == "" {
		lg.Debug("no schema specified, skipping schema creation")
		return nil
	}

	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	var exists bool
	if err := db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)", cfg.Schema); err != nil {
		return errors.Wrap(err, "error while checking schema existence")
	}
	if exists {
		lg.Debug("schema already exists", "schema", cfg.Schema)
		return nil
	}

	// Schema names cannot be bound as parameters; Config validation restricts them to alphanumerics.
	if _, err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", cfg.Schema)); err != nil {
		return errors.Wrap(err, "error while creating schema")
	}

	lg.Info("schema created", "schema", cfg.Schema)
	return nil
}

func migratePostgres(dsn string, lg log.Logger) error {
	db, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	lg.Info("applying database migrations")
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{lg})
	if err := goose.Up(db, "migrations/postgres"); err != nil {
		return err
	}

	lg.Info("applied migrations")
	return nil
}

// gooseLogger routes migration output through the cache logger.
type gooseLogger struct {
	lg log.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.lg.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.lg.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
