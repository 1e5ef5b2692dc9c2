package db

import (
	"fmt"
	"time"

	"babytrack/internal/config"
	"babytrack/internal/event"
	"babytrack/internal/user"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every persisted record type, in migration order.
var Models = []any{&user.User{}, &event.Event{}}

// Open connects to the configured database. Unique violations are translated
// to gorm.ErrDuplicatedKey. Gorm's own warnings go to l under the "gorm" name.
func Open(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Database.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if l == nil {
		l = zap.NewNop()
	}
	gormLog := gormlogger.New(
		zap.NewStdLog(l.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return conn, nil
}

// Migrate creates missing tables and columns, keeping existing rows.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Reset drops every table and recreates it empty.
func Reset(conn *gorm.DB) error {
	if err := conn.Migrator().DropTable(Models...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return Migrate(conn)
}

// Init opens the database then resets or migrates it depending on config.
func Init(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	conn, err := Open(cfg, l)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Reset {
		err = Reset(conn)
	} else {
		err = Migrate(conn)
	}
	if err != nil {
		_ = Close(conn)
		return nil, err
	}
	return conn, nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
