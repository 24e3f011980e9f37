package database

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var db *gorm.DB

// SetupDatabase opens the configured backend and migrates all domain models.
// DB_DRIVER selects between the networked MySQL store and the single-file
// embedded SQLite store; everything above the repositories is driver-agnostic.
func SetupDatabase() {
	driver := env.GetEnv("DB_DRIVER", "mysql")

	var err error
	switch driver {
	case "sqlite":
		db, err = openSQLite()
	default:
		db, err = openMySQL()
	}
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserPlan{},
		&models.TaskList{},
		&models.Task{},
		&models.Section{},
		&models.Subtask{},
		&models.AIUsage{},
		&models.BillingSubscription{},
		&models.BillingWebhookEvent{},
	); err != nil {
		panic(err)
	}
}

func openMySQL() (*gorm.DB, error) {
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	var conn *gorm.DB
	var err error
	for i := 0; i < maxRetries; i++ {
		conn, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			return conn, nil
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, err
}

func openSQLite() (*gorm.DB, error) {
	path := env.GetEnv("DB_PATH", "tasknest.db")
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// GetDB returns the global database handle.
func GetDB() *gorm.DB {
	return db
}

// SetDB overrides the global handle; used by tests with an in-memory store.
func SetDB(conn *gorm.DB) {
	db = conn
}
