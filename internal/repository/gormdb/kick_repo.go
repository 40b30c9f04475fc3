package gormdb

import (
	"context"
	"strings"
	"time"

	"github.com/dom/kick-danila/internal/domain"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type kickRepository struct {
	db *gorm.DB
}

func NewKickRepository(db *gorm.DB) *kickRepository {
	return &kickRepository{db: db}
}

func (r *kickRepository) Create(ctx context.Context, kick *domain.Kick) error {
	return translate(r.db.WithContext(ctx).Create(kick).Error)
}

func (r *kickRepository) GetByID(ctx context.Context, id uint) (*domain.Kick, error) {
	var kick domain.Kick
	err := r.db.WithContext(ctx).
		Preload("KickType").
		First(&kick, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &kick, nil
}

// List returns kicks matching filter, newest first. The name search is a
// case-insensitive substring match.
func (r *kickRepository) List(ctx context.Context, filter domain.KickFilter, limit int) ([]*domain.Kick, error) {
	query := r.db.WithContext(ctx).Preload("KickType")

	if filter.HasKickType() {
		query = query.Where("kick_type_id = ?", *filter.KickTypeID)
	}
	if filter.Query != "" {
		pattern := "%" + likeEscaper.Replace(filter.Query) + "%"
		query = query.Where(`LOWER(kicker_name) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}

	var kicks []*domain.Kick
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&kicks).Error
	if err != nil {
		return nil, err
	}
	return kicks, nil
}

func (r *kickRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Kick{}).Count(&count).Error
	return count, err
}

// CountBetween counts kicks created in [from, to).
func (r *kickRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Kick{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

func (r *kickRepository) CountByKickTypeID(ctx context.Context, kickTypeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Kick{}).
		Where("kick_type_id = ?", kickTypeID).
		Count(&count).Error
	return count, err
}

func (r *kickRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Kick{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
