package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

// Issuer signs HS256 bearer tokens bound to a user id.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Token is a freshly issued bearer token.
type Token struct {
	Signed    string
	ID        string
	ExpiresAt time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token carrying user_id, email, jti and exp claims.
func (i *Issuer) Issue(userID int, email string) (Token, error) {
	if len(i.secret) == 0 {
		return Token{}, ErrEmptySecret
	}

	id := uuid.NewString()
	exp := i.now().Add(i.ttl)
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"jti":     id,
		"iat":     i.now().Unix(),
		"exp":     exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Signed: signed, ID: id, ExpiresAt: exp}, nil
}
