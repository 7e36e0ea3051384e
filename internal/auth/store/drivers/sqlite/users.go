package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/borntotravel/auth/internal/auth/domain"
	"github.com/borntotravel/auth/internal/auth/store"
)

const userColumns = `id, email, password_hash, firstname, lastname, pseudo, is_electric_car,
	reset_code, reset_code_expires_at, created_at, updated_at`

type usersRepo struct {
	db  dbtx
	now func() time.Time
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		code      sql.NullString
		codeUntil sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Lastname, &u.Pseudo, &u.IsElectricCar,
		&code, &codeUntil, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ResetCode = mapNullStringPtr(code)
	u.ResetCodeExpiresAt = mapNullTimePtr(codeUntil)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) GetUserByResetCode(ctx context.Context, code string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		WHERE reset_code = ?
		ORDER BY reset_code_expires_at DESC
		LIMIT 1`, code))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := r.now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, firstname, lastname, pseudo, is_electric_car, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Firstname, u.Lastname, u.Pseudo, u.IsElectricCar, now, now,
	)
	return mapUniqueViolation(err)
}

func (r *usersRepo) SetResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	return r.update(ctx,
		`UPDATE users SET reset_code = ?, reset_code_expires_at = ?, updated_at = ? WHERE id = ?`,
		code, expiresAt.UTC(), r.now(), userID,
	)
}

func (r *usersRepo) ClearResetCode(ctx context.Context, userID string) error {
	return r.update(ctx,
		`UPDATE users SET reset_code = NULL, reset_code_expires_at = NULL, updated_at = ? WHERE id = ?`,
		r.now(), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.update(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, r.now(), userID,
	)
}

func (r *usersRepo) ResetPassword(ctx context.Context, userID, newHash string) error {
	return r.update(ctx,
		`UPDATE users
		SET password_hash = ?, reset_code = NULL, reset_code_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		newHash, r.now(), userID,
	)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	return r.update(ctx,
		`UPDATE users
		SET firstname = ?, lastname = ?, pseudo = ?, is_electric_car = ?, updated_at = ?
		WHERE id = ?`,
		u.Firstname, u.Lastname, u.Pseudo, u.IsElectricCar, r.now(), u.ID,
	)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.update(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

// update runs a single-row write and reports ErrNotFound when no row matched.
func (r *usersRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
