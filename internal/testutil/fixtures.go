package testutil

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KickTypeBuilder creates test kick types with a builder pattern
type KickTypeBuilder struct {
	name   string
	damage int
}

// NewKickTypeBuilder creates a new KickTypeBuilder with default values
func NewKickTypeBuilder() *KickTypeBuilder {
	return &KickTypeBuilder{
		name:   fmt.Sprintf("kick_%s", uuid.New().String()[:8]),
		damage: 1,
	}
}

// WithName sets the name
func (b *KickTypeBuilder) WithName(name string) *KickTypeBuilder {
	b.name = name
	return b
}

// WithDamage sets the damage
func (b *KickTypeBuilder) WithDamage(damage int) *KickTypeBuilder {
	b.damage = damage
	return b
}

// Build inserts the kick type
func (b *KickTypeBuilder) Build(t *testing.T, db *gorm.DB) *domain.KickType {
	t.Helper()

	kickType := &domain.KickType{Name: b.name, Damage: b.damage}
	if err := db.Create(kickType).Error; err != nil {
		t.Fatalf("failed to create kick type: %v", err)
	}
	return kickType
}

// KickBuilder creates kick records directly, bypassing the service, so
// tests can control timestamps.
type KickBuilder struct {
	kickerName string
	power      int
	kickType   *domain.KickType
	createdAt  time.Time
}

// NewKickBuilder creates a new KickBuilder with default values
func NewKickBuilder() *KickBuilder {
	return &KickBuilder{
		kickerName: fmt.Sprintf("kicker_%s", uuid.New().String()[:8]),
		power:      1,
		createdAt:  time.Now().UTC(),
	}
}

// WithKickerName sets the kicker name
func (b *KickBuilder) WithKickerName(name string) *KickBuilder {
	b.kickerName = name
	return b
}

// WithKickType references kickType and copies its damage into power
func (b *KickBuilder) WithKickType(kickType *domain.KickType) *KickBuilder {
	b.kickType = kickType
	b.power = kickType.Damage
	return b
}

// At sets the creation timestamp
func (b *KickBuilder) At(createdAt time.Time) *KickBuilder {
	b.createdAt = createdAt.UTC()
	return b
}

// Build inserts the kick
func (b *KickBuilder) Build(t *testing.T, db *gorm.DB) *domain.Kick {
	t.Helper()

	kick := &domain.Kick{
		KickerName: b.kickerName,
		Power:      b.power,
		CreatedAt:  b.createdAt,
	}
	if b.kickType != nil {
		kick.KickTypeID = &b.kickType.ID
	}

	if err := db.Create(kick).Error; err != nil {
		t.Fatalf("failed to create kick: %v", err)
	}
	return kick
}

// SeedKicks inserts count kicks one second apart, newest last
func SeedKicks(t *testing.T, db *gorm.DB, count int, base time.Time) []*domain.Kick {
	t.Helper()

	kicks := make([]*domain.Kick, 0, count)
	for i := 0; i < count; i++ {
		kick := NewKickBuilder().
			WithKickerName(fmt.Sprintf("Kicker %03d", i)).
			At(base.Add(time.Duration(i)*time.Second)).
			Build(t, db)
		kicks = append(kicks, kick)
	}
	return kicks
}

// SetDanila overwrites the singleton with the given health
func SetDanila(t *testing.T, db *gorm.DB, health, totalKicks int) *domain.Danila {
	t.Helper()

	danila := domain.NewDanila()
	if err := db.Save(danila).Error; err != nil {
		t.Fatalf("failed to save danila: %v", err)
	}

	// Zero values are only written reliably through a map update.
	err := db.Model(danila).Updates(map[string]interface{}{
		"health":               health,
		"total_kicks_received": totalKicks,
	}).Error
	if err != nil {
		t.Fatalf("failed to update danila: %v", err)
	}
	danila.Health = health
	danila.TotalKicksReceived = totalKicks
	return danila
}

// DeleteDanila removes the singleton row
func DeleteDanila(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.Exec("DELETE FROM danilas").Error; err != nil {
		t.Fatalf("failed to delete danila: %v", err)
	}
}

// PostForm submits a form without following the redirect
func PostForm(t *testing.T, ts *TestServer, path string, form url.Values) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.URL(path), strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := NoRedirectClient().Do(req)
	if err != nil {
		t.Fatalf("failed to post %s: %v", path, err)
	}
	t.Cleanup(func() {
		resp.Body.Close()
	})
	return resp
}
