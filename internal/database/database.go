package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the metric store. A MySQL DSN selects the MySQL
// dialector; any other non-empty string is treated as a SQLite file path.
// The sku_metrics table itself is created by the first seed, so loading
// from a never-seeded source surfaces a storage error instead of
// silently materializing an empty table.
func Initialize(source string) (*gorm.DB, error) {
	if source == "" {
		source = "sku_metrics.db"
	}

	var dialector gorm.Dialector
	if IsMySQLDSN(source) {
		dialector = mysql.Open(source)
	} else {
		dialector = sqlite.Open(source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", source, err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database initialized successfully")
	return db, nil
}

// IsMySQLDSN reports whether source looks like a go-sql-driver DSN
// (user:pass@tcp(host:port)/dbname) rather than a file path.
func IsMySQLDSN(source string) bool {
	return strings.Contains(source, "@tcp(") || strings.Contains(source, "@unix(")
}
