// Package auth gates job submission behind a JWT-protected account, the
// same login/register pattern the coordinator used to gate
// recommendation requests, now protecting engine job submissions instead.
package auth

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a registered account allowed to submit jobs.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password" json:"-"`
}

// Domain errors.
var (
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Repository is the persistence boundary for User.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Service is the business logic exposed to HTTP handlers.
type Service interface {
	Register(ctx context.Context, email, password string) (userID, token string, err error)
	Login(ctx context.Context, email, password string) (userID, token string, err error)
}

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(token string) (userID string, err error)
}
