package repo

import (
	"Go_Stow/config"
	"Go_Stow/internal/logging"
	"Go_Stow/model"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqlDriver "github.com/go-sql-driver/mysql"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Db *gorm.DB

// AutoMigrateAll migrates all database models.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.SocialLogin{},
		&model.StorageArea{},
		&model.StorageItem{},
	)
}

// InitDB opens the configured database, migrates it and stores it in Db.
func InitDB(cfg config.Config) error {
	db, err := OpenDB(cfg, cfg.DBName)
	if err != nil {
		return err
	}
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logging.L().Info("init db success", "driver", cfg.DBDriver)
	Db = db
	return nil
}

// OpenDB opens a connection pool for dbName using cfg.DBDriver.
func OpenDB(cfg config.Config, dbName string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "", "mysql":
		dsn := mysqlDSN(cfg, dbName)
		db, err = gorm.Open(gormMysql.Open(dsn), gormCfg)
		if err != nil && isUnknownDatabaseError(err) {
			if createErr := ensureMySQLDatabase(cfg, dbName); createErr != nil {
				return nil, fmt.Errorf("create mysql database: %w", createErr)
			}
			db, err = gorm.Open(gormMysql.Open(dsn), gormCfg)
		}
	case "postgres":
		db, err = gorm.Open(postgres.Open(postgresDSN(cfg, dbName)), gormCfg)
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = dbName + ".db"
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.DBDriver != "sqlite" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

func mysqlDSN(cfg config.Config, dbName string) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBHost,
		cfg.DBPort,
		dbName,
	)
}

func postgresDSN(cfg config.Config, dbName string) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPass,
		dbName,
	)
}

func isUnknownDatabaseError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1049
	}
	return strings.Contains(strings.ToLower(err.Error()), "unknown database")
}

func ensureMySQLDatabase(cfg config.Config, dbName string) error {
	dbName = strings.TrimSpace(dbName)
	if dbName == "" {
		return errors.New("empty database name")
	}

	serverDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBHost,
		cfg.DBPort,
	)

	serverDB, err := sql.Open("mysql", serverDSN)
	if err != nil {
		return err
	}
	defer serverDB.Close()

	if err = serverDB.Ping(); err != nil {
		return err
	}

	_, err = serverDB.Exec(
		"CREATE DATABASE IF NOT EXISTS " + quoteMySQLIdentifier(dbName) + " CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci",
	)
	return err
}

func quoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
