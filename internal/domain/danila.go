package domain

import "time"

const (
	// DanilaID is the fixed primary key of the singleton character row.
	DanilaID uint = 1

	DefaultDanilaName = "Danila"
	MaxHealth         = 100
	MinHealth         = 0
	DefaultHealAmount = 20
)

type Danila struct {
	ID                 uint       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name               string     `json:"name" gorm:"size:100;not null;default:'Danila'"`
	Health             int        `json:"health" gorm:"not null;default:100"`
	TotalKicksReceived int        `json:"total_kicks_received" gorm:"not null;default:0"`
	LastKicked         *time.Time `json:"last_kicked"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewDanila returns a fresh, fully healthy singleton.
func NewDanila() *Danila {
	return &Danila{
		ID:     DanilaID,
		Name:   DefaultDanilaName,
		Health: MaxHealth,
	}
}

// TakeKick applies damage at the given instant and reports whether the
// kick was fatal.
func (d *Danila) TakeKick(damage int, at time.Time) bool {
	d.Health = subtractHealth(clampHealth(d.Health), damage)
	d.TotalKicksReceived++
	d.LastKicked = &at
	return d.IsDead()
}

func (d *Danila) Heal(amount int) {
	d.Health = addHealth(clampHealth(d.Health), amount)
}

// Revive restores health and clears the kick history counters.
func (d *Danila) Revive() {
	d.Health = MaxHealth
	d.TotalKicksReceived = 0
	d.LastKicked = nil
	if d.Name == "" {
		d.Name = DefaultDanilaName
	}
}

func (d *Danila) IsDead() bool {
	return d.Health <= MinHealth
}

// addHealth returns h+delta clamped to the health range. h must already be
// in range; the comparisons never overflow for any delta.
func addHealth(h, delta int) int {
	switch {
	case delta >= MaxHealth-h:
		return MaxHealth
	case delta <= MinHealth-h:
		return MinHealth
	}
	return h + delta
}

func subtractHealth(h, delta int) int {
	switch {
	case delta >= h-MinHealth:
		return MinHealth
	case delta <= h-MaxHealth:
		return MaxHealth
	}
	return h - delta
}

func clampHealth(h int) int {
	if h > MaxHealth {
		return MaxHealth
	}
	if h < MinHealth {
		return MinHealth
	}
	return h
}

// Status is the read-only view served by the status API.
type Status struct {
	Health     int        `json:"health"`
	TotalKicks int        `json:"total_kicks"`
	LastKicked *time.Time `json:"last_kicked,omitempty"`

	// Version orders updates by commit. Zero means unordered.
	Version uint64 `json:"-"`
}

func (d *Danila) Status() *Status {
	return &Status{
		Health:     d.Health,
		TotalKicks: d.TotalKicksReceived,
		LastKicked: d.LastKicked,
	}
}
