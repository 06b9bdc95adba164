package rest

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/relieflk/floodmap/internal/model"
)

var (
	ErrUsernameTaken       = errors.New("username already taken")
	ErrPasswordLoginNotSet = errors.New("account has no password login")
	ErrNoEmail             = errors.New("no email on account")
)

// CreateUserIfAbsentRepo inserts the user unless the username exists.
// Check and insert run in one transaction so two concurrent signups for
// the same name cannot both succeed.
func (api *API) CreateUserIfAbsentRepo(ctx context.Context, user model.User) error {
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, user.Username,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameTaken
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO users (id, username, password_hash, role, auth_provider)
            VALUES ($1, $2, $3, $4, $5)`,
			user.ID, user.Username, user.PasswordHash, user.Role, user.AuthProvider,
		)
		return err
	})
	if err != nil && !errors.Is(err, ErrUsernameTaken) {
		log.Println("error creating new user", err)
	}
	return err
}

func (api *API) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	stmt := `
        SELECT id, username, password_hash, role, auth_provider, created_at, updated_at
        FROM users WHERE username = $1
    `

	err := api.DB.QueryRow(ctx, stmt, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.AuthProvider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (api *API) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	stmt := `
        SELECT id, username, password_hash, role, auth_provider, created_at, updated_at
        FROM users WHERE id = $1
    `

	err := api.DB.QueryRow(ctx, stmt, userID).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.AuthProvider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		log.Println("error getting user by ID", err)
		return model.User{}, err
	}
	return user, nil
}
