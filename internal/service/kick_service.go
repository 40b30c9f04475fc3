package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/repository"
)

// StatusNotifier is told about Danila's state after every committed
// mutation.
type StatusNotifier interface {
	NotifyStatus(status *domain.Status)
}

type KickService struct {
	tx       repository.Transactor
	notifier StatusNotifier
	now      func() time.Time

	// versions is bumped after each singleton write, while the row lock is
	// held, so version order matches commit order.
	versions atomic.Uint64
}

func NewKickService(tx repository.Transactor, notifier StatusNotifier) *KickService {
	return &KickService{
		tx:       tx,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *KickService) WithClock(now func() time.Time) *KickService {
	s.now = now
	return s
}

type KickInput struct {
	KickerName string
	KickTypeID *uint
}

type KickResult struct {
	Danila *domain.Danila
	Kick   *domain.Kick
	// Fatal is set when the kick left Danila at zero health.
	Fatal bool
}

func (s *KickService) ApplyKick(ctx context.Context, input KickInput) (*KickResult, error) {
	var result *KickResult
	var version uint64

	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		danila, err := repos.Danila.GetForUpdate(ctx)
		if err != nil {
			return danilaLookupError("kick", err)
		}

		damage := domain.DefaultDamage
		var kickTypeID *uint
		if input.KickTypeID != nil && *input.KickTypeID != 0 {
			kickType, err := repos.KickType.GetByID(ctx, *input.KickTypeID)
			switch {
			case err == nil:
				damage = kickType.Damage
				kickTypeID = &kickType.ID
			case !errors.Is(err, repository.ErrNotFound):
				return domain.StorageError("kick", err)
			}
		}

		now := s.now().UTC()
		kick := &domain.Kick{
			KickerName: domain.NormalizeKickerName(input.KickerName),
			Power:      damage,
			CreatedAt:  now,
			KickTypeID: kickTypeID,
		}
		if err := repos.Kick.Create(ctx, kick); err != nil {
			return domain.StorageError("kick", err)
		}

		fatal := danila.TakeKick(damage, now)
		if err := repos.Danila.Update(ctx, danila); err != nil {
			return domain.StorageError("kick", err)
		}
		version = s.versions.Add(1)

		result = &KickResult{Danila: danila, Kick: kick, Fatal: fatal}
		return nil
	})
	if err != nil {
		return nil, domain.StorageError("kick", err)
	}

	s.notify(result.Danila, version)
	return result, nil
}

func (s *KickService) ApplyHeal(ctx context.Context, amount int) (*domain.Danila, error) {
	var danila *domain.Danila
	var version uint64

	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		danila, err = repos.Danila.GetForUpdate(ctx)
		if err != nil {
			return danilaLookupError("heal", err)
		}

		danila.Heal(amount)
		if err := repos.Danila.Update(ctx, danila); err != nil {
			return domain.StorageError("heal", err)
		}
		version = s.versions.Add(1)
		return nil
	})
	if err != nil {
		return nil, domain.StorageError("heal", err)
	}

	s.notify(danila, version)
	return danila, nil
}

type ResetResult struct {
	Danila *domain.Danila
	// Created is set when no singleton existed and a new one was made.
	Created bool
}

// Reset revives the singleton in place, or creates it when it is missing.
// Exactly one singleton exists afterwards.
func (s *KickService) Reset(ctx context.Context) (*ResetResult, error) {
	var result *ResetResult
	var version uint64

	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		danila, err := repos.Danila.GetForUpdate(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			danila = domain.NewDanila()
			if err := repos.Danila.Upsert(ctx, danila); err != nil {
				return domain.StorageError("reset", err)
			}
			version = s.versions.Add(1)
			result = &ResetResult{Danila: danila, Created: true}
			return nil
		case err != nil:
			return domain.StorageError("reset", err)
		}

		danila.Revive()
		if err := repos.Danila.Update(ctx, danila); err != nil {
			return domain.StorageError("reset", err)
		}
		version = s.versions.Add(1)
		result = &ResetResult{Danila: danila}
		return nil
	})
	if err != nil {
		return nil, domain.StorageError("reset", err)
	}

	s.notify(result.Danila, version)
	return result, nil
}

func (s *KickService) AddKickType(ctx context.Context, name string, damage int) (*domain.KickType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyKickTypeName
	}
	if utf8.RuneCountInString(name) > domain.MaxKickTypeNameLen {
		return nil, domain.ErrKickTypeNameLong
	}
	if damage < 0 {
		return nil, domain.ErrInvalidDamage
	}

	kickType := &domain.KickType{Name: name, Damage: damage}

	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		_, err := repos.KickType.GetByName(ctx, name)
		switch {
		case err == nil:
			return domain.ErrDuplicateKickType
		case !errors.Is(err, repository.ErrNotFound):
			return domain.StorageError("add kick type", err)
		}

		if err := repos.KickType.Create(ctx, kickType); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateKickType
			}
			return domain.StorageError("add kick type", err)
		}
		return nil
	})
	if err != nil {
		return nil, domain.StorageError("add kick type", err)
	}

	return kickType, nil
}

// DeleteKickType removes a kick type that no recorded kick references.
func (s *KickService) DeleteKickType(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.KickType.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrKickTypeNotFound
			}
			return domain.StorageError("delete kick type", err)
		}

		refs, err := repos.Kick.CountByKickTypeID(ctx, id)
		if err != nil {
			return domain.StorageError("delete kick type", err)
		}
		if refs > 0 {
			return domain.ErrKickTypeInUse
		}

		if err := repos.KickType.Delete(ctx, id); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return domain.ErrKickTypeNotFound
			case errors.Is(err, repository.ErrReferenced):
				return domain.ErrKickTypeInUse
			}
			return domain.StorageError("delete kick type", err)
		}
		return nil
	})
	return domain.StorageError("delete kick type", err)
}

func (s *KickService) DeleteKick(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Kick.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrKickNotFound
			}
			return domain.StorageError("delete kick", err)
		}
		return nil
	})
	return domain.StorageError("delete kick", err)
}

func (s *KickService) notify(danila *domain.Danila, version uint64) {
	if s.notifier != nil {
		status := danila.Status()
		status.Version = version
		s.notifier.NotifyStatus(status)
	}
}

func danilaLookupError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrDanilaNotFound
	}
	return domain.StorageError(op, err)
}
