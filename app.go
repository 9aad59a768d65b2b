package skintalk

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/skintalk/db/sqlite3"
	"github.com/nasermirzaei89/skintalk/discuss"
	"github.com/nasermirzaei89/skintalk/seed"
	"github.com/nasermirzaei89/skintalk/server"
	"github.com/nasermirzaei89/skintalk/viewstate"
	"github.com/nasermirzaei89/skintalk/web"
)

const (
	DataSourceEmbedded = "embedded"
	DataSourceFile     = "file"
	DataSourceSQLite   = "sqlite"

	defaultDBDSN       = "file:skintalk.db"
	defaultSessionName = "skintalk"
)

type App struct {
	server     *server.Server
	handler    *web.Handler
	discussSvc *discuss.Service
	db         *sql.DB
}

type UnknownDataSourceError struct {
	Name string
}

func (err UnknownDataSourceError) Error() string {
	return fmt.Sprintf("unknown data source %q", err.Name)
}

func NewApp(ctx context.Context) (*App, error) {
	source, db, err := NewSnapshotSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot source: %w", err)
	}

	discussSvc := discuss.NewService(discuss.NewBoard(discuss.PlaceholderUser), source)

	err = discussSvc.Reload(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load board, starting empty", "error", err)
	}

	srv := newServer()
	sessionName := env.GetString("SESSION_NAME", defaultSessionName)
	cookieStore := web.NewCookieStore(sessionKey(ctx), srv.TLS.Enabled)
	registry := viewstate.NewRegistry(env.GetInt("SESSION_MAX", viewstate.DefaultMaxSessions), sessionIdleTTL(ctx))

	app := &App{
		server:     srv,
		handler:    web.NewHandler(discussSvc, registry, cookieStore, sessionName),
		discussSvc: discussSvc,
		db:         db,
	}

	return app, nil
}

// Run serves until SIGINT or SIGTERM. SIGHUP reloads the board from the data source.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if app.db != nil {
			err := app.db.Close()
			if err != nil {
				slog.ErrorContext(ctx, "failed to close database", "error", err)
			}
		}
	}()

	go app.reloadOnHangup(ctx)

	err := app.server.Run(ctx, app.handler)
	if err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	return nil
}

func (app *App) reloadOnHangup(ctx context.Context) {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)

	defer signal.Stop(hangup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			err := app.discussSvc.Reload(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "failed to reload board", "error", err)
			}
		}
	}
}

// NewSnapshotSource builds the source named by DATA_SOURCE. The returned db is nil unless
// the source is backed by SQLite; the caller closes it.
func NewSnapshotSource(ctx context.Context) (discuss.SnapshotSource, *sql.DB, error) {
	name := env.GetString("DATA_SOURCE", DataSourceEmbedded)

	switch name {
	case DataSourceEmbedded:
		return seed.Embedded(), nil, nil
	case DataSourceFile:
		return &seed.File{Path: env.GetString("SEED_FILE", "data/discussion.json")}, nil, nil
	case DataSourceSQLite:
		db, err := OpenDB(ctx)
		if err != nil {
			return nil, nil, err
		}

		return sqlite3.NewSource(db), db, nil
	default:
		return nil, nil, UnknownDataSourceError{Name: name}
	}
}

// OpenDB opens the database at DB_DSN and applies pending migrations.
func OpenDB(ctx context.Context) (*sql.DB, error) {
	db, err := sqlite3.NewDB(ctx, env.GetString("DB_DSN", defaultDBDSN))
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	err = sqlite3.MigrateUp(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return db, nil
}

// ImportSeed writes the snapshot read from source into the database at DB_DSN, replacing
// whatever it held.
func ImportSeed(ctx context.Context, source discuss.SnapshotSource) error {
	snapshot, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch seed snapshot: %w", err)
	}

	db, err := OpenDB(ctx)
	if err != nil {
		return err
	}

	defer func() {
		err := db.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close database", "error", err)
		}
	}()

	err = sqlite3.NewSource(db).Import(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	return nil
}

func sessionKey(ctx context.Context) []byte {
	key := env.GetString("SESSION_KEY", "")
	if key != "" {
		return []byte(key)
	}

	slog.WarnContext(ctx, "SESSION_KEY is not set, sessions will not survive a restart")

	return securecookie.GenerateRandomKey(32)
}

// sessionIdleTTL reads SESSION_IDLE_TTL as a duration like "12h".
func sessionIdleTTL(ctx context.Context) time.Duration {
	raw := env.GetString("SESSION_IDLE_TTL", "")
	if raw == "" {
		return viewstate.DefaultIdleTTL
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		slog.WarnContext(ctx, "invalid SESSION_IDLE_TTL, using default", "value", raw, "default", viewstate.DefaultIdleTTL)

		return viewstate.DefaultIdleTTL
	}

	return ttl
}

func newServer() *server.Server {
	server := &server.Server{
		Port: env.GetString("PORT", server.DefaultPort),
		Host: env.GetString("HOST", ""),
		TLS: server.ServerTLS{
			Enabled: env.GetBool("TLS_ENABLED", false),
			Mode:    env.GetString("TLS_MODE", server.DefaultTLSMode),
			AutoCert: &server.ServerTLSAutoCert{
				CacheDir: env.GetString("TLS_AUTOCERT_CACHE_DIR", "./cert-cache"),
				Domains:  env.GetStringSlice("TLS_AUTOCERT_DOMAINS", []string{}),
				Email:    env.GetString("TLS_AUTOCERT_EMAIL", ""),
			},
			CertFile: env.GetString("TLS_CERT_FILE", ""),
			KeyFile:  env.GetString("TLS_KEY_FILE", ""),
		},
	}

	return server
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
