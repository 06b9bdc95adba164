package rest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/values"
	"golang.org/x/crypto/bcrypt"
)

type TokenClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	Exp    int64  `json:"exp"`
}

// Simplified token creation
func (api *API) createToken(id string) (string, time.Time, error) {
	expTime, err := time.ParseDuration(api.Config.JwtExpires)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(expTime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "access",
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (api *API) createRefreshToken(id string) (string, time.Time, error) {
	expTime, err := time.ParseDuration(api.Config.RefreshExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(expTime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "refresh",
	})

	tokenString, err := token.SignedString([]byte(api.Config.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (api *API) CreateNewUser(ctx context.Context, req model.RegisterRequest) (model.AuthUser, string, string, error) {
	req.Username = strings.TrimSpace(req.Username)

	if err := util.ValidateStruct(req); err != nil {
		return model.AuthUser{}, values.BadRequestBody, "Invalid username or password", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthUser{}, values.Error, "Error hashing password", err
	}
	hashStr := string(hash)

	user := model.User{
		ID:           util.GenerateUUID(),
		Username:     req.Username,
		PasswordHash: &hashStr,
		Role:         values.RoleMember,
		AuthProvider: "password",
	}

	if err := api.CreateUserIfAbsentRepo(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return model.AuthUser{}, values.Conflict, "Username is already taken", err
		}
		return model.AuthUser{}, values.Error, "Error creating new user", err
	}

	return model.AuthUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, values.Created, "User registered successfully", nil
}

func (api *API) LoginUser(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	req.Username = strings.TrimSpace(req.Username)

	if err := util.ValidateStruct(req); err != nil {
		return model.LoginResponse{}, values.BadRequestBody, "Invalid credentials format", err
	}

	user, err := api.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid username or password", err
	}

	if user.PasswordHash == nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid username or password", ErrPasswordLoginNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid username or password", err
	}

	token, _, err := api.createToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	refresh, _, err := api.createRefreshToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	return model.LoginResponse{
		User: &model.AuthUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
		Token:        token,
		RefreshToken: refresh,
	}, values.Success, "Login successful", nil
}

// LoginGoogleUser signs a Google account in, provisioning a member
// account keyed on the email the first time.
func (api *API) LoginGoogleUser(ctx context.Context, email string) (model.LoginResponse, string, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.LoginResponse{}, values.BadRequestBody, "Google account has no email", ErrNoEmail
	}

	user, err := api.GetUserByUsername(ctx, email)
	if err != nil {
		user = model.User{
			ID:           util.GenerateUUID(),
			Username:     email,
			Role:         values.RoleMember,
			AuthProvider: "google",
		}
		if createErr := api.CreateUserIfAbsentRepo(ctx, user); createErr != nil {
			// Lost a provisioning race: the account exists now, use it.
			if !errors.Is(createErr, ErrUsernameTaken) {
				return model.LoginResponse{}, values.Error, "Error creating new user", createErr
			}
			user, err = api.GetUserByUsername(ctx, email)
			if err != nil {
				return model.LoginResponse{}, values.Error, values.SystemErr, err
			}
		}
	}

	token, _, err := api.createToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	refresh, _, err := api.createRefreshToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	return model.LoginResponse{
		User: &model.AuthUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
		Token:        token,
		RefreshToken: refresh,
	}, values.Success, "Login successful", nil
}
