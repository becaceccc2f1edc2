package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a GORM session bound to ctx. When tx is non-nil every statement
// of the session runs inside that transaction, which is how repositories share
// the *sql.Tx a service opened on the same pool.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.WithContext(ctx)
	if tx != nil {
		session.Statement.ConnPool = tx
	}
	return session
}
