package gormdb

import (
	"context"

	"github.com/dom/kick-danila/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type danilaRepository struct {
	db *gorm.DB
}

func NewDanilaRepository(db *gorm.DB) *danilaRepository {
	return &danilaRepository{db: db}
}

func (r *danilaRepository) Get(ctx context.Context) (*domain.Danila, error) {
	var danila domain.Danila
	err := r.db.WithContext(ctx).First(&danila, "id = ?", domain.DanilaID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &danila, nil
}

func (r *danilaRepository) GetForUpdate(ctx context.Context) (*domain.Danila, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != sqliteDialect {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var danila domain.Danila
	err := query.First(&danila, "id = ?", domain.DanilaID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &danila, nil
}

func (r *danilaRepository) Update(ctx context.Context, danila *domain.Danila) error {
	danila.ID = domain.DanilaID
	return translate(r.db.WithContext(ctx).Save(danila).Error)
}

func (r *danilaRepository) Upsert(ctx context.Context, danila *domain.Danila) error {
	danila.ID = domain.DanilaID
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(danila).Error)
}
