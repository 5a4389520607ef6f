package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-care-log/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, name, email, avatar_url,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		p.ID,
		p.Name,
		p.Email,
		p.AvatarURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET
			name = $2,
			email = $3,
			avatar_url = $4,
			updated_at = $5
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Email,
		p.AvatarURL,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return profiles.Profile{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, email, avatar_url,
			created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, id)

	var p profiles.Profile
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.Profile{}, ErrNotFound
		}
		return profiles.Profile{}, err
	}

	return p, nil
}

func (r *ProfilesRepo) GetByIDs(ctx context.Context, ids []string) (map[string]profiles.Profile, error) {
	out := make(map[string]profiles.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, email, avatar_url,
			created_at, updated_at
		FROM profiles
		WHERE id IN (`+strings.Join(placeholders, ",")+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p profiles.Profile
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Email,
			&p.AvatarURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}

	return out, rows.Err()
}
