// Package identity answers "who is using the itinerary". The core only
// needs a yes/no signal; profiles exist so the API can log and greet.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated indicates a missing or rejected credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// Profile is the authenticated user.
type Profile struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
}

// Provider reports the identity attached to a request context.
type Provider interface {
	Authenticated(ctx context.Context) bool
	Profile(ctx context.Context) (Profile, bool)
}

type profileKey struct{}

// WithProfile returns ctx carrying p.
func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// FromContext returns the profile stored by WithProfile.
func FromContext(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(Profile)
	return p, ok
}

// Local is the single-user provider used by the CLI and by an API without a
// configured secret: everyone is the local profile.
type Local struct {
	User Profile
}

// NewLocal returns a Local provider for username.
func NewLocal(username string) *Local {
	if username == "" {
		username = "local"
	}
	return &Local{User: Profile{UserID: username, Username: username}}
}

func (l *Local) Authenticated(context.Context) bool {
	return true
}

func (l *Local) Profile(ctx context.Context) (Profile, bool) {
	if p, ok := FromContext(ctx); ok {
		return p, true
	}
	return l.User, true
}

// Claims is the JWT payload.
type Claims struct {
	Username string   `json:"username"`
	UserID   string   `json:"userId"`
	Role     []string `json:"role"`
	jwt.RegisteredClaims
}

// JWT verifies HS256 bearer tokens signed with a shared secret.
type JWT struct {
	secret []byte
	now    func() time.Time
}

// NewJWT creates a verifier. The secret must not be empty.
func NewJWT(secret string) (*JWT, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWT{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for p that expires after ttl.
func (j *JWT) Issue(p Profile, ttl time.Duration) (string, error) {
	now := j.now()
	claims := &Claims{
		Username: p.Username,
		UserID:   p.UserID,
		Role:     p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks an Authorization header value of the form "Bearer <token>".
func (j *JWT) Verify(header string) (Profile, error) {
	if len(header) < 8 || header[:7] != "Bearer " {
		return Profile{}, fmt.Errorf("%w: invalid token format", ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(header[7:], claims, func(token *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil || !token.Valid {
		return Profile{}, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	if claims.UserID == "" {
		return Profile{}, fmt.Errorf("%w: token without user id", ErrUnauthenticated)
	}

	return Profile{UserID: claims.UserID, Username: claims.Username, Roles: claims.Role}, nil
}

func (j *JWT) Authenticated(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}

func (j *JWT) Profile(ctx context.Context) (Profile, bool) {
	return FromContext(ctx)
}
