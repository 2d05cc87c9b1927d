package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Tx adalah batas transaksi eksplisit. Method yang mengunci baris (FOR UPDATE)
// hanya menerima *Tx, sehingga tidak bisa dipanggil di luar transaksi.
type Tx struct {
	conn *gorm.DB
}

func (tx *Tx) Conn() *gorm.DB {
	return tx.conn
}

type Transactor struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewTransactor(db *gorm.DB, lockTimeout time.Duration) *Transactor {
	return &Transactor{db: db, lockTimeout: lockTimeout}
}

func (t *Transactor) DB() *gorm.DB {
	return t.db
}

// RunInTx runs fn in one transaction. Any error or panic from fn rolls back
// every write and releases every row lock taken inside it.
func (t *Transactor) RunInTx(ctx context.Context, fn func(tx *Tx) error) error {
	err := t.db.WithContext(ctx).Transaction(func(conn *gorm.DB) error {
		if err := setLockTimeout(conn, t.lockTimeout); err != nil {
			return err
		}
		return fn(&Tx{conn: conn})
	})
	return Classify(err)
}

func setLockTimeout(conn *gorm.DB, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	switch conn.Dialector.Name() {
	case "postgres":
		return conn.Exec(fmt.Sprintf("SET LOCAL lock_timeout = %d", timeout.Milliseconds())).Error
	case "mysql":
		secs := int(timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		return conn.Exec(fmt.Sprintf("SET SESSION innodb_lock_wait_timeout = %d", secs)).Error
	}
	// sqlite: bounded by _busy_timeout in the DSN
	return nil
}
