package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"weddingmarket/internal/domain"
)

type PartyRepo struct {
	db *sql.DB
}

func NewPartyRepo(db *sql.DB) *PartyRepo {
	return &PartyRepo{db: db}
}

var _ domain.PartyRepository = (*PartyRepo)(nil)

const partyColumns = `id, role, display_name, email, hashed_password, created_at`

func (r *PartyRepo) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+partyColumns+` FROM parties WHERE id = ?
	`, id))
}

func (r *PartyRepo) GetByEmail(ctx context.Context, email string) (*domain.Party, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+partyColumns+` FROM parties WHERE email = ?
	`, email))
}

func (r *PartyRepo) scanOne(row *sql.Row) (*domain.Party, error) {
	p := &domain.Party{}
	err := row.Scan(&p.ID, &p.Role, &p.DisplayName, &p.Email, &p.HashedPassword, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}
	return p, nil
}
