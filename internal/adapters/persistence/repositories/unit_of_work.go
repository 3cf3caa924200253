package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// DBFromContext returns the transaction carried by ctx, or db when there is
// none. Every repository and adapter resolves its handle through here so
// that work started inside UnitOfWork.Do joins the same transaction.
func DBFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// UnitOfWork runs a function inside one database transaction
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new unit of work
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise. A ctx already inside a transaction is reused as is.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
