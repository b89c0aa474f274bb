//go:build purego

package gormstore

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// 纯 Go 实现，注册驱动名 "sqlite"
	_ "modernc.org/sqlite"
)

// SQLiteDriverName database/sql 驱动名（modernc.org/sqlite，无需 cgo）
const SQLiteDriverName = "sqlite"

func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: SQLiteDriverName,
		DSN:        dsn,
	})
}
