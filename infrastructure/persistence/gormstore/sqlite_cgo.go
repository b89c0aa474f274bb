//go:build !purego

package gormstore

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName database/sql 驱动名（mattn/go-sqlite3，需要 cgo）
const SQLiteDriverName = "sqlite3"

func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}
