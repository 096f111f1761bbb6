package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"climatejobs/internal/logger"
)

// DB bundles the gorm handle used by the domain services with an sqlx view of
// the same pool for hand-written aggregate queries.
type DB struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens PostgreSQL for postgres:// URLs and a cgo-free SQLite file
// for anything else.
func Connect(dsn string, log *zap.Logger) (*DB, error) {
	log = logger.OrNop(log)
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var (
		db         *gorm.DB
		err        error
		driverName string
	)
	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		driverName = "pgx"
	} else {
		log.Info("using SQLite for local development", zap.String("dsn", dsn))
		db, err = gorm.Open(
			gormsqlite.New(gormsqlite.Config{
				DriverName: "sqlite",
				DSN:        dsn,
			}),
			cfg,
		)
		// sqlx only needs the placeholder style
		driverName = "sqlite3"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if IsPostgres(dsn) {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	return &DB{Gorm: db, SQLX: sqlx.NewDb(sqlDB, driverName)}, nil
}

func (d *DB) Close() error {
	return d.SQLX.Close()
}
