// Package jwt issues and verifies the service's HS256 access tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/atolz-bro/usermanagementservice/internal/models"
)

// DefaultIssuer is written to the iss claim when Config.Issuer is empty.
const DefaultIssuer = "usermanagementservice"

var (
	// ErrMalformedToken covers every rejection except expiry: bad structure,
	// bad signature, unexpected algorithm, missing subject.
	ErrMalformedToken = errors.New("malformed token")

	// ErrExpiredToken is returned for a correctly signed token past its exp claim.
	ErrExpiredToken = errors.New("token expired")
)

// Config holds the signing key and token lifetime. It is read once at startup.
type Config struct {
	Issuer string
	Secret []byte
	TTL    time.Duration
}

// accessClaims is the wire form of models.Claims.
type accessClaims struct {
	Role string `json:"role"`
	jwtlib.RegisteredClaims
}

// Codec issues and decodes access tokens. A Codec is immutable after
// NewCodec returns and may be shared by concurrent requests.
type Codec struct {
	now    func() time.Time
	issuer string
	secret []byte
	ttl    time.Duration
}

// Option customizes a Codec.
type Option func(*Codec)

// WithClock replaces time.Now, used by tests to move across the exp boundary.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// ValidateTTL rejects lifetimes the exp/iat claims cannot carry exactly:
// NumericDate has one-second resolution.
func ValidateTTL(ttl time.Duration) error {
	if ttl < time.Second || ttl%time.Second != 0 {
		return fmt.Errorf("invalid token TTL: %s (must be a whole number of seconds, at least 1s)", ttl)
	}
	return nil
}

// NewCodec validates cfg and returns a Codec with a private copy of the secret.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	if err := ValidateTTL(cfg.TTL); err != nil {
		return nil, err
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	c := &Codec{
		secret: secret,
		ttl:    cfg.TTL,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for subject carrying role.
func (c *Codec) Issue(subject, role string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}

	now := c.now()
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies the signature and expiry of token and returns its claims.
// Expiry is reported only for tokens whose signature is valid.
func (c *Codec) Decode(token string) (*models.Claims, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}),
		jwtlib.WithIssuer(c.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(c.now),
	)

	parsed, err := parser.ParseWithClaims(token, &accessClaims{}, func(t *jwtlib.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}
	if claims.IssuedAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return nil, fmt.Errorf("%w: invalid issue time", ErrMalformedToken)
	}

	return &models.Claims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ExtractSubject returns the sub claim of a valid token. It fails exactly
// like Decode.
func (c *Codec) ExtractSubject(token string) (string, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
