package weatherkit

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials identify a WeatherKit service and hold the key used to sign its tokens.
type Credentials struct {
	// TeamID is the 10-character Team ID of the developer account.
	TeamID string
	// ServiceID is the registered WeatherKit Service ID.
	ServiceID string
	// KeyID is the 10-character identifier of the signing key.
	KeyID string
	// PrivateKey is the PEM encoded EC private key (the .p8 file contents).
	PrivateKey []byte
}

func (c Credentials) validate() error {
	switch {
	case c.TeamID == "":
		return fmt.Errorf("%w: team id", ErrMissingCredential)
	case c.ServiceID == "":
		return fmt.Errorf("%w: service id", ErrMissingCredential)
	case c.KeyID == "":
		return fmt.Errorf("%w: key id", ErrMissingCredential)
	case len(c.PrivateKey) == 0:
		return fmt.Errorf("%w: private key", ErrMissingCredential)
	}
	return nil
}

// Clock supplies the current time to the token issuer.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// TokenIssuer signs WeatherKit developer tokens. The private key is parsed once;
// the issuer holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	teamID    string
	serviceID string
	keyID     string
	key       *ecdsa.PrivateKey
	clock     Clock
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithClock sets the time source used for the iat and exp claims.
func WithClock(c Clock) IssuerOption {
	return func(i *TokenIssuer) {
		if c != nil {
			i.clock = c
		}
	}
}

// NewTokenIssuer validates the credentials and parses the private key.
func NewTokenIssuer(creds Credentials, opts ...IssuerOption) (*TokenIssuer, error) {
	if err := creds.validate(); err != nil {
		return nil, &SigningError{Err: err}
	}

	key, err := ParsePrivateKey(creds.PrivateKey)
	if err != nil {
		return nil, err
	}

	issuer := &TokenIssuer{
		teamID:    creds.TeamID,
		serviceID: creds.ServiceID,
		keyID:     creds.KeyID,
		key:       key,
		clock:     SystemClock,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Identity is the header "id" value: team id and service id joined by a period.
func (i *TokenIssuer) Identity() string {
	return i.teamID + "." + i.serviceID
}

// PublicKey returns the public half of the signing key.
func (i *TokenIssuer) PublicKey() *ecdsa.PublicKey {
	return &i.key.PublicKey
}

// IssueToken returns a compact ES256 JWS valid for expireAfter, truncated to whole seconds.
func (i *TokenIssuer) IssueToken(expireAfter time.Duration) (string, error) {
	lifetime := expireAfter.Truncate(time.Second)
	if lifetime < time.Second {
		return "", &SigningError{Err: ErrInvalidExpiry}
	}

	issuedAt := i.clock.Now().Round(time.Second)
	claims := jwt.RegisteredClaims{
		Issuer:    i.teamID,
		Subject:   i.serviceID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = i.keyID
	token.Header["id"] = i.Identity()

	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	return signed, nil
}

// IssueToken signs a single token with the system clock.
func IssueToken(creds Credentials, expireAfter time.Duration) (string, error) {
	issuer, err := NewTokenIssuer(creds)
	if err != nil {
		return "", err
	}
	return issuer.IssueToken(expireAfter)
}

// ParsePrivateKey decodes a PEM encoded PKCS#8 or SEC 1 ECDSA key on curve P-256.
func ParsePrivateKey(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM(pemBytes)
	if err != nil {
		if errors.Is(err, jwt.ErrNotECPrivateKey) {
			return nil, &SigningError{Err: fmt.Errorf("%w: %v", ErrUnsupportedKey, err)}
		}
		return nil, &SigningError{Err: fmt.Errorf("parse private key: %w", err)}
	}
	if key.Curve != elliptic.P256() {
		return nil, &SigningError{Err: fmt.Errorf("%w: got curve %s", ErrUnsupportedKey, key.Curve.Params().Name)}
	}
	return key, nil
}

// TokenClaims is the decoded content of a verified developer token.
type TokenClaims struct {
	KeyID     string    `json:"kid"`
	Identity  string    `json:"id"`
	Issuer    string    `json:"iss"`
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// VerifyToken checks the ES256 signature and expiry of token against pub.
// A nil clock uses the system clock.
func VerifyToken(token string, pub *ecdsa.PublicKey, clock Clock) (*TokenClaims, error) {
	if clock == nil {
		clock = SystemClock
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return pub, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithTimeFunc(clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		// iat is rounded to the nearest second and can sit up to half a second ahead.
		jwt.WithLeeway(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("weatherkit: verify token: %w", err)
	}

	out := &TokenClaims{
		Issuer:  claims.Issuer,
		Subject: claims.Subject,
	}
	if kid, ok := parsed.Header["kid"].(string); ok {
		out.KeyID = kid
	}
	if id, ok := parsed.Header["id"].(string); ok {
		out.Identity = id
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
