package gormdb

import (
	"context"

	"github.com/dom/kick-danila/internal/domain"
	"gorm.io/gorm"
)

type kickTypeRepository struct {
	db *gorm.DB
}

func NewKickTypeRepository(db *gorm.DB) *kickTypeRepository {
	return &kickTypeRepository{db: db}
}

func (r *kickTypeRepository) Create(ctx context.Context, kickType *domain.KickType) error {
	return translate(r.db.WithContext(ctx).Create(kickType).Error)
}

func (r *kickTypeRepository) GetByID(ctx context.Context, id uint) (*domain.KickType, error) {
	var kickType domain.KickType
	err := r.db.WithContext(ctx).First(&kickType, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &kickType, nil
}

func (r *kickTypeRepository) GetByName(ctx context.Context, name string) (*domain.KickType, error) {
	var kickType domain.KickType
	err := r.db.WithContext(ctx).First(&kickType, "name = ?", name).Error
	if err != nil {
		return nil, translate(err)
	}
	return &kickType, nil
}

func (r *kickTypeRepository) GetAll(ctx context.Context) ([]*domain.KickType, error) {
	var kickTypes []*domain.KickType
	err := r.db.WithContext(ctx).Order("damage ASC, id ASC").Find(&kickTypes).Error
	if err != nil {
		return nil, err
	}
	return kickTypes, nil
}

func (r *kickTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.KickType{}).Count(&count).Error
	return count, err
}

func (r *kickTypeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.KickType{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
