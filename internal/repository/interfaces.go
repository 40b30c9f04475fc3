package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dom/kick-danila/internal/domain"
)

var (
	// ErrNotFound is returned by single-record lookups and deletes that
	// match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a delete would break a foreign key.
	ErrReferenced = errors.New("record is still referenced")
)

type KickTypeRepository interface {
	Create(ctx context.Context, kickType *domain.KickType) error
	GetByID(ctx context.Context, id uint) (*domain.KickType, error)
	GetByName(ctx context.Context, name string) (*domain.KickType, error)
	GetAll(ctx context.Context) ([]*domain.KickType, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type KickRepository interface {
	Create(ctx context.Context, kick *domain.Kick) error
	GetByID(ctx context.Context, id uint) (*domain.Kick, error)
	List(ctx context.Context, filter domain.KickFilter, limit int) ([]*domain.Kick, error)
	Count(ctx context.Context) (int64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByKickTypeID(ctx context.Context, kickTypeID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type DanilaRepository interface {
	// Get returns the singleton, or ErrNotFound when it is absent.
	Get(ctx context.Context) (*domain.Danila, error)
	// GetForUpdate is Get with a row lock held until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context) (*domain.Danila, error)
	Update(ctx context.Context, danila *domain.Danila) error
	// Upsert writes danila on the well-known key, inserting or overwriting.
	Upsert(ctx context.Context, danila *domain.Danila) error
}

// Transactor runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls back every write made through repos.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	KickType KickTypeRepository
	Kick     KickRepository
	Danila   DanilaRepository
	Tx       Transactor
}
