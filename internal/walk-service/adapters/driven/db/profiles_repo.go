package db

import (
	"context"

	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/ports"
)

type ProfilesRepo struct {
	db *DB
}

func NewProfilesRepo(db *DB) ports.IProfilesRepo {
	return &ProfilesRepo{
		db: db,
	}
}

// WalkerProfiles loads the public profile fields for a batch of walkers.
// Unknown ids are simply absent from the result.
func (pr *ProfilesRepo) WalkerProfiles(ctx context.Context, walkerIDs []string) (map[string]model.WalkerProfile, error) {
	if len(walkerIDs) == 0 {
		return map[string]model.WalkerProfile{}, nil
	}

	q := `
	SELECT user_id, name, image_url, rating, total_walks
	FROM profiles
	WHERE user_id = ANY($1)`

	rows, err := pr.db.conn.Query(ctx, q, walkerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[string]model.WalkerProfile, len(walkerIDs))
	for rows.Next() {
		var p model.WalkerProfile
		if err := rows.Scan(&p.UserID, &p.Name, &p.ImageURL, &p.Rating, &p.TotalWalks); err != nil {
			return nil, err
		}
		profiles[p.UserID] = p
	}
	return profiles, rows.Err()
}
