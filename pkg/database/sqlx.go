package database

import (
	"log"
	"time"

	"cake_shop_backend/internal/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// InitSQLX 初始化 sqlx 连接 (pgx 驱动)
// 统计分析模块直接写 SQL 聚合查询，不走 GORM
func InitSQLX() *sqlx.DB {
	cfg := config.GlobalConfig.Database

	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database via sqlx: %v", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}
