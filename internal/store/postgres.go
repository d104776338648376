package store

import (
	"context"
	"database/sql"
	errs "errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type historySlot struct {
	SlotKey   string    `gorm:"column:slot_key;primaryKey"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (historySlot) TableName() string { return "history_slots" }

// DB wraps gorm.DB for the Postgres backend and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

// OpenPostgres connects to dsn. The schema is expected to be migrated
// (see Migrator).
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(5)
	sdb.SetMaxIdleConns(2)
	if err := sdb.PingContext(ctx); err != nil {
		sdb.Close()
		return nil, wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row historySlot
	err := d.gorm.WithContext(ctx).Where("slot_key = ?", key).Take(&row).Error
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrap(err, "get slot "+key)
	}
	return row.Value, true, nil
}

func (d *DB) Put(ctx context.Context, key string, value []byte) error {
	row := historySlot{SlotKey: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := d.gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	return wrap(err, "put slot "+key)
}

func (d *DB) Delete(ctx context.Context, key string) error {
	err := d.gorm.WithContext(ctx).Where("slot_key = ?", key).Delete(&historySlot{}).Error
	return wrap(err, "delete slot "+key)
}
