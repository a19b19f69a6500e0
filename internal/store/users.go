package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// User backs the end-user OAuth flow, which is separate from the admin
// session and unused by the storefront API itself.
type User struct {
	ID           int64     `json:"id"`
	OpenID       string    `json:"openId"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	LoginMethod  *string   `json:"loginMethod"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

type UsersStore struct {
	db *sql.DB
}

// Upsert inserts the user or refreshes the mutable fields keyed on openId.
func (s *UsersStore) Upsert(ctx context.Context, user *User) error {
	if user.OpenID == "" {
		return fmt.Errorf("user openId is required for upsert")
	}
	if s.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	role := user.Role
	if role == "" {
		role = "user"
	}

	query := `
		INSERT INTO users (openId, name, email, loginMethod, role, lastSignedIn)
		VALUES (?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			email = VALUES(email),
			loginMethod = VALUES(loginMethod),
			role = VALUES(role),
			lastSignedIn = NOW()
	`
	_, err := s.db.ExecContext(ctx, query,
		user.OpenID, user.Name, user.Email, user.LoginMethod, role)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *UsersStore) GetByOpenID(ctx context.Context, openID string) (*User, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, openId, name, email, loginMethod, role, createdAt, updatedAt, lastSignedIn
		FROM users WHERE openId = ?
	`, openID).Scan(&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod,
		&u.Role, &u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
