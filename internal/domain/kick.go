package domain

import (
	"strings"
	"time"
)

const (
	// MaxKickListSize caps how many kicks a listing returns.
	MaxKickListSize = 50

	DefaultDamage      = 1
	AnonymousKicker    = "Anonymous"
	MaxKickerNameLen   = 100
	MaxKickTypeNameLen = 50
)

type KickType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Damage    int       `json:"damage" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type Kick struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	KickerName string    `json:"kicker_name" gorm:"size:100;not null"`
	Power      int       `json:"power" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	KickTypeID *uint     `json:"kick_type_id" gorm:"index"`
	Image      *string   `json:"image,omitempty" gorm:"size:100"` // reserved, never written

	KickType *KickType `json:"kick_type,omitempty" gorm:"foreignKey:KickTypeID;constraint:OnDelete:RESTRICT"`
}

// KickFilter narrows a kick listing. A nil or zero KickTypeID means no
// category filter; an empty Query means no name search.
type KickFilter struct {
	KickTypeID *uint
	Query      string
}

func (f KickFilter) HasKickType() bool {
	return f.KickTypeID != nil && *f.KickTypeID != 0
}

type KickStats struct {
	TotalKicks int64 `json:"total_kicks"`
	TodayKicks int64 `json:"today_kicks"`
}

// DefaultKickTypes are inserted on first run when no kick types exist.
var DefaultKickTypes = []KickType{
	{Name: "Light flick", Damage: 1},
	{Name: "Medium kick", Damage: 3},
	{Name: "Powerful strike", Damage: 5},
	{Name: "Super kick", Damage: 10},
	{Name: "Ultra-mega kick", Damage: 15},
}

// NormalizeKickerName substitutes the anonymous placeholder for blank names.
func NormalizeKickerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnonymousKicker
	}
	if r := []rune(name); len(r) > MaxKickerNameLen {
		name = string(r[:MaxKickerNameLen])
	}
	return name
}
