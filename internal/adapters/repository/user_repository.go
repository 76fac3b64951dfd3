package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, name, email, password_hash, role, is_active, reset_token, reset_token_expires_at, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.ResetToken, &u.ResetTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_token = $1 AND reset_token_expires_at > NOW()`, token)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	args := []any{}
	if role != "" {
		query += " WHERE role = $1"
		args = append(args, role)
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) ListActiveByRole(ctx context.Context, role domain.Role) ([]domain.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email FROM users
		WHERE role = $1 AND is_active = TRUE
		ORDER BY name ASC`, role)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var summaries []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, translate(err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, role = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1`,
		user.ID, user.Name, user.Email, user.Role, user.IsActive,
	)
	return translate(err)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return translate(err)
}

// SaveResetToken stores the token and writes the outbox event in one
// transaction so the recovery e-mail is dispatched iff the token exists.
func (r *UserRepository) SaveResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET reset_token = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`,
		userID, token, expiresAt,
	)
	if err != nil {
		return translate(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (id, event_type, payload)
		VALUES ($1, $2, $3)`,
		uuid.NewString(), ports.EventPasswordReset, outboxPayload,
	)
	if err != nil {
		return translate(err)
	}

	return tx.Commit()
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`,
		userID, passwordHash,
	)
	return translate(err)
}
