// Package repotest provides database fixtures for package tests.
package repotest

import (
	"Go_Stow/internal/repo"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UseTestDB points repo.Db at a fresh in-memory database for the duration of t.
func UseTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := repo.AutoMigrateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// one connection keeps every statement on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	prev := repo.Db
	repo.Db = db
	t.Cleanup(func() {
		repo.Db = prev
		_ = sqlDB.Close()
	})
	return db
}

// UseTestRedis points repo.Redis at an in-process Redis server for the duration of t.
func UseTestRedis(t testing.TB) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := repo.Redis
	repo.Redis = client
	t.Cleanup(func() {
		repo.Redis = prev
		_ = client.Close()
	})
	return mr
}
