package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-care-log/internal/domain/actions"
)

type ActionsRepo struct {
	db *sql.DB
}

func NewActionsRepo(db *sql.DB) *ActionsRepo {
	return &ActionsRepo{db: db}
}

func (r *ActionsRepo) Create(ctx context.Context, a actions.Action) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO actions (
			id, pet_id, user_id,
			template_id,
			ts, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		a.ID,
		a.PetID,
		a.UserID,
		toNullString(a.TemplateID),
		a.Timestamp,
		a.CreatedAt,
	)
	return err
}

func (r *ActionsRepo) GetByID(ctx context.Context, id string) (actions.Action, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return actions.Action{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id, user_id,
			template_id,
			ts, created_at
		FROM actions
		WHERE id = $1
	`, id)

	a, err := scanAction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return actions.Action{}, ErrNotFound
		}
		return actions.Action{}, err
	}
	return a, nil
}

func (r *ActionsRepo) ListSince(ctx context.Context, petID string, since time.Time) ([]actions.Action, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, pet_id, user_id,
			template_id,
			ts, created_at
		FROM actions
		WHERE pet_id = $1 AND ts >= $2
		ORDER BY ts DESC, created_at DESC, id
	`, petID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]actions.Action, 0)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *ActionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM actions
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

// En Postgres esto también lo cubre el FK ON DELETE SET NULL, pero el
// service lo llama explícito para que el adapter de memoria haga lo mismo.
func (r *ActionsRepo) DetachTemplate(ctx context.Context, templateID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE actions
		SET template_id = NULL
		WHERE template_id = $1
	`, templateID)
	return err
}

func (r *ActionsRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM actions
		WHERE pet_id = $1
	`, petID)
	return err
}

func scanAction(row rowScanner) (actions.Action, error) {
	var a actions.Action
	var tid sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.UserID,
		&tid,
		&a.Timestamp,
		&a.CreatedAt,
	); err != nil {
		return actions.Action{}, err
	}

	if tid.Valid {
		s := tid.String
		a.TemplateID = &s
	}
	return a, nil
}
