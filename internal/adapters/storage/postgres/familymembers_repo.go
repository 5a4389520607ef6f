package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-care-log/internal/domain/familymembers"
)

type FamilyMembersRepo struct {
	db *sql.DB
}

func NewFamilyMembersRepo(db *sql.DB) *FamilyMembersRepo {
	return &FamilyMembersRepo{db: db}
}

func (r *FamilyMembersRepo) Create(ctx context.Context, m familymembers.FamilyMember) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO family_members (
			id, pet_id, user_id,
			role, status,
			invited_by, invited_email,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.PetID,
		toNullString(m.UserID),
		string(m.Role),
		string(m.Status),
		m.InvitedBy,
		m.InvitedEmail,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *FamilyMembersRepo) Update(ctx context.Context, m familymembers.FamilyMember) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE family_members
		SET
			user_id = $2,
			role = $3,
			status = $4,
			invited_email = $5,
			updated_at = $6
		WHERE id = $1
	`,
		m.ID,
		toNullString(m.UserID),
		string(m.Role),
		string(m.Status),
		m.InvitedEmail,
		m.UpdatedAt,
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

func (r *FamilyMembersRepo) GetByID(ctx context.Context, id string) (familymembers.FamilyMember, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return familymembers.FamilyMember{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, memberSelect+` WHERE id = $1`, id)

	m, err := scanMember(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return familymembers.FamilyMember{}, ErrNotFound
		}
		return familymembers.FamilyMember{}, err
	}
	return m, nil
}

func (r *FamilyMembersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM family_members
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

func (r *FamilyMembersRepo) ListByPet(ctx context.Context, petID string) ([]familymembers.FamilyMember, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, memberSelect+`
		WHERE pet_id = $1
		ORDER BY created_at ASC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

func (r *FamilyMembersRepo) ListActiveByUser(ctx context.Context, userID string) ([]familymembers.FamilyMember, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, memberSelect+`
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

func (r *FamilyMembersRepo) ListPendingByEmail(ctx context.Context, email string) ([]familymembers.FamilyMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, memberSelect+`
		WHERE lower(invited_email) = $1 AND status = 'pending'
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

func (r *FamilyMembersRepo) DeleteByPet(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM family_members
		WHERE pet_id = $1
	`, petID)
	return err
}

const memberSelect = `
	SELECT
		id, pet_id, user_id,
		role, status,
		invited_by, invited_email,
		created_at, updated_at
	FROM family_members`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (familymembers.FamilyMember, error) {
	var m familymembers.FamilyMember
	var uid sql.NullString
	var role, status string

	if err := row.Scan(
		&m.ID,
		&m.PetID,
		&uid,
		&role,
		&status,
		&m.InvitedBy,
		&m.InvitedEmail,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return familymembers.FamilyMember{}, err
	}

	if uid.Valid {
		s := uid.String
		m.UserID = &s
	}
	m.Role = familymembers.Role(role)
	m.Status = familymembers.Status(status)

	return m, nil
}

func collectMembers(rows *sql.Rows) ([]familymembers.FamilyMember, error) {
	out := make([]familymembers.FamilyMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// user_id es nullable mientras la invitación está pendiente
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}
