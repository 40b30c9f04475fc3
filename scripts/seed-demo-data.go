package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dom/kick-danila/internal/config"
	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/repository"
	"github.com/dom/kick-danila/internal/repository/gormdb"
	"gorm.io/gorm/logger"
)

var kickers = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Mallory", "Trent", "Peggy"}

// Writes a backdated kick history straight into the configured database so
// the listing, search and daily stats have something to show.
func main() {
	days := flag.Int("days", 7, "Spread kicks over this many days, ending today")
	perDay := flag.Int("per-day", 10, "Kicks to write per day")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := gormdb.NewConnection(cfg.DatabaseURL, logger.Warn)
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repos := gormdb.NewRepositories(db)
	if err := gormdb.Seed(ctx, repos); err != nil {
		fmt.Printf("Failed to seed defaults: %v\n", err)
		os.Exit(1)
	}

	kickTypes, err := repos.KickType.GetAll(ctx)
	if err != nil {
		fmt.Printf("Failed to load kick types: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().In(cfg.Location)
	written := 0

	err = repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		for d := *days - 1; d >= 0; d-- {
			day := time.Date(now.Year(), now.Month(), now.Day()-d, 0, 0, 0, 0, cfg.Location)
			span := 24 * time.Hour
			if d == 0 {
				span = now.Sub(day)
			}

			for i := 0; i < *perDay; i++ {
				kick := &domain.Kick{
					KickerName: kickers[rng.Intn(len(kickers))],
					Power:      domain.DefaultDamage,
					CreatedAt:  day.Add(time.Duration(rng.Int63n(int64(span) + 1))).UTC(),
				}
				if len(kickTypes) > 0 && rng.Intn(4) > 0 {
					kt := kickTypes[rng.Intn(len(kickTypes))]
					kick.KickTypeID = &kt.ID
					kick.Power = kt.Damage
				}
				if err := tx.Kick.Create(ctx, kick); err != nil {
					return err
				}
				written++
			}
		}
		return nil
	})
	if err != nil {
		fmt.Printf("Failed to write kicks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d kicks over %d days\n", written, *days)
	fmt.Println("Danila's health is untouched; the history is for listing and stats only.")
}
