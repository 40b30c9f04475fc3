package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/repository"
	"github.com/jinzhu/now"
)

type QueryService struct {
	kickRepo     repository.KickRepository
	kickTypeRepo repository.KickTypeRepository
	danilaRepo   repository.DanilaRepository
	location     *time.Location
	now          func() time.Time
}

func NewQueryService(kickRepo repository.KickRepository, kickTypeRepo repository.KickTypeRepository, danilaRepo repository.DanilaRepository, location *time.Location) *QueryService {
	if location == nil {
		location = time.UTC
	}
	return &QueryService{
		kickRepo:     kickRepo,
		kickTypeRepo: kickTypeRepo,
		danilaRepo:   danilaRepo,
		location:     location,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *QueryService) WithClock(now func() time.Time) *QueryService {
	s.now = now
	return s
}

// ListKicks returns at most domain.MaxKickListSize kicks matching filter,
// newest first.
func (s *QueryService) ListKicks(ctx context.Context, filter domain.KickFilter) ([]*domain.Kick, error) {
	kicks, err := s.kickRepo.List(ctx, filter, domain.MaxKickListSize)
	if err != nil {
		return nil, domain.StorageError("list kicks", err)
	}
	return kicks, nil
}

// Stats counts all kicks and the kicks recorded during the current
// calendar day in the configured location.
func (s *QueryService) Stats(ctx context.Context) (*domain.KickStats, error) {
	total, err := s.kickRepo.Count(ctx)
	if err != nil {
		return nil, domain.StorageError("count kicks", err)
	}

	today := now.With(s.now().In(s.location))
	todayCount, err := s.kickRepo.CountBetween(ctx, today.BeginningOfDay(), today.BeginningOfDay().AddDate(0, 0, 1))
	if err != nil {
		return nil, domain.StorageError("count kicks", err)
	}

	return &domain.KickStats{TotalKicks: total, TodayKicks: todayCount}, nil
}

func (s *QueryService) KickTypes(ctx context.Context) ([]*domain.KickType, error) {
	kickTypes, err := s.kickTypeRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.StorageError("list kick types", err)
	}
	return kickTypes, nil
}

func (s *QueryService) Danila(ctx context.Context) (*domain.Danila, error) {
	danila, err := s.danilaRepo.Get(ctx)
	if err != nil {
		return nil, danilaLookupError("get danila", err)
	}
	return danila, nil
}

func (s *QueryService) Status(ctx context.Context) (*domain.Status, error) {
	danila, err := s.Danila(ctx)
	if err != nil {
		return nil, err
	}
	return danila.Status(), nil
}

// Dashboard is everything the index page shows.
type Dashboard struct {
	Kicks     []*domain.Kick
	KickTypes []*domain.KickType
	Danila    *domain.Danila // nil when the singleton is missing
	Stats     *domain.KickStats
	Filter    domain.KickFilter
}

func (s *QueryService) Dashboard(ctx context.Context, filter domain.KickFilter) (*Dashboard, error) {
	kicks, err := s.ListKicks(ctx, filter)
	if err != nil {
		return nil, err
	}

	kickTypes, err := s.KickTypes(ctx)
	if err != nil {
		return nil, err
	}

	danila, err := s.Danila(ctx)
	if err != nil && !errors.Is(err, domain.ErrDanilaNotFound) {
		return nil, err
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Kicks:     kicks,
		KickTypes: kickTypes,
		Danila:    danila,
		Stats:     stats,
		Filter:    filter,
	}, nil
}
