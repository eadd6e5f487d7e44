package repository

import (
	"context"
	"database/sql"

	"nexticket/internal/database"
	"nexticket/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the user on first sign-in or refreshes the profile fields
// on a repeat sign-in. Role and fraud flag are never touched here.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, display_name, photo_url, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    photo_url = EXCLUDED.photo_url,
		    updated_at = NOW()
		RETURNING id, role, is_fraud, created_at, updated_at`

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	return r.db.QueryRowContext(ctx, query,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.Role,
	).Scan(&user.ID, &user.Role, &user.IsFraud, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, display_name, photo_url, role, is_fraud, created_at, updated_at
		FROM users
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
		&user.Role,
		&user.IsFraud,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT id, email, display_name, photo_url, role, is_fraud, created_at, updated_at
		FROM users
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.DisplayName,
			&user.PhotoURL,
			&user.Role,
			&user.IsFraud,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) UpdateRole(ctx context.Context, email string, role models.Role) (bool, error) {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE email = $2`

	res, err := r.db.ExecContext(ctx, query, role, email)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

// MarkFraud sets the one-way fraud flag. Only vendors can be flagged and
// the flag is never cleared.
func (r *UserRepository) MarkFraud(ctx context.Context, email string) (bool, error) {
	query := `
		UPDATE users SET is_fraud = TRUE, updated_at = NOW()
		WHERE email = $1 AND role = 'vendor' AND NOT is_fraud`

	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}
