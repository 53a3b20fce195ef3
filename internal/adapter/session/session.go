// Package session issues and verifies signed session tokens that carry an
// actor's tenant and role. It is the only place a domain.Actor is built from
// request input; the core trusts whatever actor this package hands it.
//
// Login is a mock: tokens are issued for any known tenant and valid role
// without checking credentials. Verification, however, is real, so a client
// cannot forge or alter its tenant or role after login.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/neomorfeo/orderguard/internal/domain"
)

const (
	claimTenantID = "tenant_id"
	claimRole     = "role"
)

// ErrInvalidSession is returned for missing, malformed, expired or forged tokens.
var ErrInvalidSession = errors.New("invalid session")

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer. The secret must not be empty.
func NewIssuer(secret []byte, issuer string, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session: secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive, got %s", ttl)
	}
	return &Issuer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue returns a signed token for actor and its expiry.
func (i *Issuer) Issue(actor domain.Actor, username string) (string, time.Time, error) {
	if !actor.Valid() {
		return "", time.Time{}, fmt.Errorf("session: refusing to issue token for invalid actor %+v", actor)
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)

	token, err := jwt.NewBuilder().
		Subject(username).
		Issuer(i.issuer).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(claimTenantID, actor.TenantID).
		Claim(claimRole, string(actor.Role)).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("building token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, i.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Verify checks the token's signature, issuer and expiry and returns the actor it carries.
func (i *Issuer) Verify(token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, ErrInvalidSession
	}

	parsed, err := jwt.ParseString(token,
		jwt.WithKey(jwa.HS256, i.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(i.issuer),
		jwt.WithClock(jwt.ClockFunc(i.now)),
	)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	actor := domain.Actor{
		TenantID: stringClaim(parsed, claimTenantID),
		Role:     domain.Role(stringClaim(parsed, claimRole)),
	}
	if !actor.Valid() {
		return domain.Actor{}, fmt.Errorf("%w: token carries no valid tenant and role", ErrInvalidSession)
	}

	return actor, nil
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
