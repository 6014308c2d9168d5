// Package auth issues and checks the signed credentials protecting administrative endpoints.
package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/coursedesk/core/admin"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid admin credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	signingMethod = jwt.SigningMethodHS256

	// compared against when the username is unknown, so both failures cost one bcrypt run
	dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string     `json:"username"`
	Role     admin.Role `json:"role"`
}

// Can reports whether the claims grant the capability.
func (c Claims) Can(capability admin.Capability) bool {
	return c.Role.Can(capability)
}

// AdminFinder looks admins up by username.
type AdminFinder interface {
	GetByUsername(ctx context.Context, uname string) (admin.Admin, error)
}

type Gate struct {
	admins    AdminFinder
	key       []byte
	issuer    string
	expiresIn time.Duration
	nowFunc   func() time.Time
}

func NewGate(admins AdminFinder, secretKey, issuer string, expiresIn time.Duration) *Gate {
	return &Gate{
		admins:    admins,
		key:       []byte(secretKey),
		issuer:    issuer,
		expiresIn: expiresIn,
		nowFunc:   time.Now,
	}
}

// ExpiresIn is the validity window of issued credentials.
func (g *Gate) ExpiresIn() time.Duration {
	return g.expiresIn
}

// Login checks the credentials of an admin and issues a signed token.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (g *Gate) Login(ctx context.Context, uname, pwd string) (string, *Claims, error) {
	adm, err := g.admins.GetByUsername(ctx, uname)
	if err != nil {
		if errors.Cause(err) != admin.ErrNotFound {
			return "", nil, errors.Wrap(err, "finding admin by username")
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pwd))
		return "", nil, ErrInvalidCredentials
	}
	if err = adm.CheckPassword(pwd); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := g.NewClaims(adm)
	token, err := g.GenerateToken(claims)
	if err != nil {
		return "", nil, errors.Wrap(err, "generating token")
	}
	return token, claims, nil
}

// NewClaims returns fresh claims for the admin, valid for ExpiresIn.
func (g *Gate) NewClaims(adm admin.Admin) *Claims {
	now := g.nowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    g.issuer,
			Subject:   strconv.FormatInt(adm.ID, 10),
			ExpiresAt: now.Add(g.expiresIn).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: adm.Username,
		Role:     adm.Role(),
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (g *Gate) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(signingMethod, claims)
	ss, err := token.SignedString(g.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Verify checks the signature and expiry of a token. The role is not checked here, see Authorize.
func (g *Gate) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != signingMethod.Alg() {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return g.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == 0 { // credentials must expire
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authorize checks that tokenStr is a valid credential granting the capability.
// Missing or invalid credentials yield ErrUnauthorized, a valid one lacking the capability ErrForbidden.
func (g *Gate) Authorize(tokenStr string, capability admin.Capability) (*Claims, error) {
	claims, err := g.Verify(tokenStr)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !claims.Can(capability) {
		return claims, ErrForbidden
	}
	return claims, nil
}
