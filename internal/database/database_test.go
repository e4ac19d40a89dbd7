package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"github.com/bigredeye/gradebook/internal/config"
	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/store/storetest"
)

func openSQLite(t *testing.T) *DataBase {
	db, err := Open(zaptest.NewLogger(t), sqlite.Open(filepath.Join(t.TempDir(), "grades.db")))
	if err != nil {
		t.Fatal("Failed to open sqlite database:", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openSQLite(t)
	})
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("GRADEBOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GRADEBOOK_TEST_POSTGRES_DSN is not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		db, err := Open(zaptest.NewLogger(t), postgres.Open(dsn))
		if err != nil {
			t.Fatal("Failed to open postgres database:", err)
		}
		if err := db.Exec("TRUNCATE grades RESTART IDENTITY").Error; err != nil {
			t.Fatal("Failed to truncate grades:", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	})
}

func TestOpenDataBase(t *testing.T) {
	conf := &config.Config{}
	conf.DataBase.Driver = config.DriverSQLite
	conf.DataBase.Path = filepath.Join(t.TempDir(), "grades.db")

	db, err := OpenDataBase(zaptest.NewLogger(t), conf)
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	saved, err := db.SaveGrade(context.Background(), &models.Grade{Name: "Ana", Score: 90})
	if err != nil {
		t.Fatal("Failed to save grade:", err)
	}
	if saved.ID != 1 {
		t.Fatalf("Expected first id to be 1, got %d", saved.ID)
	}
}

func TestOpenDataBaseUnknownDriver(t *testing.T) {
	conf := &config.Config{}
	conf.DataBase.Driver = "oracle"

	if _, err := OpenDataBase(zaptest.NewLogger(t), conf); err == nil {
		t.Fatal("Expected error for unknown driver")
	}
}
