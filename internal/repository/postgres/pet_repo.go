package postgres

import (
	"context"
	"errors"

	"github.com/avukelic/homespace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PetRepo struct {
	pool *pgxpool.Pool
}

func NewPetRepo(pool *pgxpool.Pool) *PetRepo {
	return &PetRepo{pool: pool}
}

// Get returns the household pet, or nil if none has been created yet.
func (r *PetRepo) Get(ctx context.Context) (*domain.Pet, error) {
	query := `
		SELECT id, name, fullness, happiness, last_fed_at, last_played_at
		FROM pets
		LIMIT 1`
	var pet domain.Pet
	err := r.pool.QueryRow(ctx, query).Scan(
		&pet.ID, &pet.Name, &pet.Fullness, &pet.Happiness, &pet.LastFedAt, &pet.LastPlayedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &pet, err
}

func (r *PetRepo) Save(ctx context.Context, pet *domain.Pet) error {
	query := `
		INSERT INTO pets (id, name, fullness, happiness, last_fed_at, last_played_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			fullness = EXCLUDED.fullness,
			happiness = EXCLUDED.happiness,
			last_fed_at = EXCLUDED.last_fed_at,
			last_played_at = EXCLUDED.last_played_at`
	_, err := r.pool.Exec(ctx, query,
		pet.ID, pet.Name, pet.Fullness, pet.Happiness, pet.LastFedAt, pet.LastPlayedAt,
	)
	return err
}
