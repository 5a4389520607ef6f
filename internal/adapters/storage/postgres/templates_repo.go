package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-care-log/internal/domain/templates"
)

type TemplatesRepo struct {
	db *sql.DB
}

func NewTemplatesRepo(db *sql.DB) *TemplatesRepo {
	return &TemplatesRepo{db: db}
}

func (r *TemplatesRepo) Create(ctx context.Context, t templates.ActionTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO action_templates (
			id, pet_id,
			name, icon,
			created_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		t.ID,
		t.PetID,
		t.Name,
		t.Icon,
		t.CreatedBy,
		t.CreatedAt,
	)
	return err
}

func (r *TemplatesRepo) GetByID(ctx context.Context, id string) (templates.ActionTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return templates.ActionTemplate{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id,
			name, icon,
			created_by, created_at
		FROM action_templates
		WHERE id = $1
	`, id)

	var t templates.ActionTemplate
	if err := row.Scan(
		&t.ID,
		&t.PetID,
		&t.Name,
		&t.Icon,
		&t.CreatedBy,
		&t.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return templates.ActionTemplate{}, ErrNotFound
		}
		return templates.ActionTemplate{}, err
	}

	return t, nil
}

func (r *TemplatesRepo) ListByPet(ctx context.Context, petID string) ([]templates.ActionTemplate, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id,
			name, icon,
			created_by, created_at
		FROM action_templates
		WHERE pet_id = $1
		ORDER BY created_at ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]templates.ActionTemplate, 0)
	for rows.Next() {
		var t templates.ActionTemplate
		if err := rows.Scan(
			&t.ID,
			&t.PetID,
			&t.Name,
			&t.Icon,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *TemplatesRepo) GetByIDs(ctx context.Context, ids []string) (map[string]templates.ActionTemplate, error) {
	out := make(map[string]templates.ActionTemplate, len(ids))
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
			id, pet_id,
			name, icon,
			created_by, created_at
		FROM action_templates
		WHERE id IN (`+strings.Join(placeholders, ",")+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t templates.ActionTemplate
		if err := rows.Scan(
			&t.ID,
			&t.PetID,
			&t.Name,
			&t.Icon,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out[t.ID] = t
	}

	return out, rows.Err()
}

func (r *TemplatesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM action_templates
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplatesRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM action_templates
		WHERE pet_id = $1
	`, petID)
	return err
}
