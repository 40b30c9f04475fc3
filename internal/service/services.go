package service

import (
	"github.com/dom/kick-danila/internal/config"
	"github.com/dom/kick-danila/internal/repository"
)

type Services struct {
	Kick  *KickService
	Query *QueryService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier StatusNotifier) *Services {
	return &Services{
		Kick:  NewKickService(repos.Tx, notifier),
		Query: NewQueryService(repos.Kick, repos.KickType, repos.Danila, cfg.Location),
	}
}
