package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PetStatMax = 100

	// Stats drain by one point per interval since the last interaction.
	PetFullnessDecay  = 30 * time.Minute
	PetHappinessDecay = 45 * time.Minute
)

// Pet is the shared household pet. One row; rendering/animation lives client-side.
type Pet struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Fullness     int       `json:"fullness"`
	Happiness    int       `json:"happiness"`
	LastFedAt    time.Time `json:"last_fed_at"`
	LastPlayedAt time.Time `json:"last_played_at"`
}

// ApplyDecay lowers stats based on time elapsed since the last feed/play.
// The timestamps advance past the consumed intervals so that saving the pet
// afterwards does not charge the same elapsed time twice.
func (p *Pet) ApplyDecay(now time.Time) {
	p.Fullness, p.LastFedAt = decayed(p.Fullness, p.LastFedAt, now, PetFullnessDecay)
	p.Happiness, p.LastPlayedAt = decayed(p.Happiness, p.LastPlayedAt, now, PetHappinessDecay)
}

// Mood summarizes the pet state for display.
func (p *Pet) Mood() string {
	switch {
	case p.Fullness < 20:
		return "hungry"
	case p.Happiness < 20:
		return "bored"
	case p.Fullness > 80 && p.Happiness > 80:
		return "thriving"
	default:
		return "content"
	}
}

func decayed(stat int, since, now time.Time, interval time.Duration) (int, time.Time) {
	if now.Before(since) {
		return stat, since
	}
	steps := int(now.Sub(since) / interval)
	stat -= steps
	if stat < 0 {
		stat = 0
	}
	return stat, since.Add(time.Duration(steps) * interval)
}
