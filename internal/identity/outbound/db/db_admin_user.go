package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/resetmail/internal/identity/entity"
)

const selectAdminUser = `SELECT id, email, username, first_name, last_name, locale_code, enabled,
	password_hash, COALESCE(password_reset_token_hash, ''), password_requested_at, updated_at
FROM admin_users `

func scanAdminUser(row pgx.Row) (*entity.AdminUser, error) {
	var (
		u           entity.AdminUser
		requestedAt *time.Time
	)
	if err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.LocaleCode, &u.Enabled,
		&u.PasswordHash, &u.PasswordResetTokenHash, &requestedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.PasswordRequestedAt = requestedAt
	return &u, nil
}

func (s *DB) GetAdminUserByEmail(ctx context.Context, email string) (_ *entity.AdminUser, err error) {
	ctx, span := s.startSpan(ctx, "GetAdminUserByEmail")
	defer func() { s.endSpan(span, err) }()

	u, err := scanAdminUser(s.conn.QueryRow(ctx, selectAdminUser+`WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

func (s *DB) GetAdminUserByResetTokenHash(ctx context.Context, tokenHash string) (_ *entity.AdminUser, err error) {
	ctx, span := s.startSpan(ctx, "GetAdminUserByResetTokenHash")
	defer func() { s.endSpan(span, err) }()

	u, err := scanAdminUser(s.conn.QueryRow(ctx, selectAdminUser+`WHERE password_reset_token_hash = $1`, tokenHash))
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

// CreateAdminUser inserts u and returns its id.
func (s *DB) CreateAdminUser(ctx context.Context, u entity.AdminUser) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateAdminUser")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `INSERT INTO admin_users
		(email, username, first_name, last_name, locale_code, enabled, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		u.Email, u.Username, u.FirstName, u.LastName, u.LocaleCode, u.Enabled, u.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, s.mapError(err)
	}
	return id, nil
}

func (s *DB) SavePasswordResetRequest(ctx context.Context, req entity.PasswordResetRequest) (err error) {
	ctx, span := s.startSpan(ctx, "SavePasswordResetRequest")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE admin_users
		SET password_reset_token_hash = $2, password_requested_at = $3
		WHERE id = $1`, req.UserID, req.TokenHash, req.RequestedAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return s.mapError(pgx.ErrNoRows)
	}
	return nil
}

// ResetAdminPassword swaps the password hash only while tokenHash is still the
// pending token. It reports false when the token was already consumed.
func (s *DB) ResetAdminPassword(ctx context.Context, in entity.PasswordReset) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ResetAdminPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE admin_users
		SET password_hash = $3, password_reset_token_hash = NULL, password_requested_at = NULL, updated_at = $4
		WHERE id = $1 AND password_reset_token_hash = $2`,
		in.UserID, in.TokenHash, in.PasswordHash, in.UpdatedAt)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}
