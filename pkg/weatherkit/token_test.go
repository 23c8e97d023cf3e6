package weatherkit

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T, curve elliptic.Curve) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func testCredentials(t *testing.T) (Credentials, *ecdsa.PrivateKey) {
	t.Helper()
	key, pemBytes := newTestKey(t, elliptic.P256())
	return Credentials{
		TeamID:     "AT7K7Y62H6",
		ServiceID:  "val.town.weather",
		KeyID:      "3JSPU8AVG9",
		PrivateKey: pemBytes,
	}, key
}

func fixedClock(sec int64, nsec int64) Clock {
	return ClockFunc(func() time.Time { return time.Unix(sec, nsec) })
}

func decodeSegment(t *testing.T, seg string) map[string]interface{} {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestIssueToken_HeaderAndClaims(t *testing.T) {
	creds, _ := testCredentials(t)
	issuer, err := NewTokenIssuer(creds, WithClock(fixedClock(1700000000, 0)))
	require.NoError(t, err)

	token, err := issuer.IssueToken(60 * time.Second)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	header := decodeSegment(t, parts[0])
	assert.Equal(t, "ES256", header["alg"])
	assert.Equal(t, "3JSPU8AVG9", header["kid"])
	assert.Equal(t, "AT7K7Y62H6.val.town.weather", header["id"])

	payload := decodeSegment(t, parts[1])
	assert.Equal(t, "AT7K7Y62H6", payload["iss"])
	assert.Equal(t, "val.town.weather", payload["sub"])
	assert.Equal(t, float64(1700000000), payload["iat"])
	assert.Equal(t, float64(1700000060), payload["exp"])
	assert.NotContains(t, payload, "aud")
	assert.NotContains(t, payload, "nbf")
	assert.NotContains(t, payload, "jti")
}

func TestIssueToken_ExpiryWindow(t *testing.T) {
	creds, _ := testCredentials(t)

	tests := []struct {
		name        string
		clock       Clock
		expireAfter time.Duration
		wantIat     float64
		wantExp     float64
	}{
		{"one minute", fixedClock(1700000000, 0), time.Minute, 1700000000, 1700000060},
		{"rounds issued-at down", fixedClock(1700000000, 400_000_000), time.Hour, 1700000000, 1700003600},
		{"rounds issued-at up", fixedClock(1700000000, 600_000_000), 30 * time.Second, 1700000001, 1700000031},
		{"sub-second lifetime truncated", fixedClock(1700000000, 0), 1500 * time.Millisecond, 1700000000, 1700000001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, err := NewTokenIssuer(creds, WithClock(tt.clock))
			require.NoError(t, err)

			token, err := issuer.IssueToken(tt.expireAfter)
			require.NoError(t, err)

			payload := decodeSegment(t, strings.Split(token, ".")[1])
			assert.Equal(t, tt.wantIat, payload["iat"])
			assert.Equal(t, tt.wantExp, payload["exp"])
		})
	}
}

func TestIssueToken_SignatureVerifies(t *testing.T) {
	creds, key := testCredentials(t)
	issuer, err := NewTokenIssuer(creds, WithClock(fixedClock(1700000000, 0)))
	require.NoError(t, err)

	token, err := issuer.IssueToken(time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	require.Len(t, sig, 64, "ES256 signatures are r||s, 32 bytes each")

	digest := sha256.Sum256([]byte(parts[0] + "." + parts[1]))
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	assert.True(t, ecdsa.Verify(&key.PublicKey, digest[:], r, s))

	claims, err := VerifyToken(token, issuer.PublicKey(), fixedClock(1700000030, 0))
	require.NoError(t, err)
	assert.Equal(t, "AT7K7Y62H6", claims.Issuer)
	assert.Equal(t, "val.town.weather", claims.Subject)
	assert.Equal(t, "3JSPU8AVG9", claims.KeyID)
	assert.Equal(t, "AT7K7Y62H6.val.town.weather", claims.Identity)
	assert.Equal(t, time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestVerifyToken_Rejects(t *testing.T) {
	creds, _ := testCredentials(t)
	issuer, err := NewTokenIssuer(creds, WithClock(fixedClock(1700000000, 0)))
	require.NoError(t, err)
	token, err := issuer.IssueToken(time.Minute)
	require.NoError(t, err)

	other, _ := newTestKey(t, elliptic.P256())

	t.Run("wrong key", func(t *testing.T) {
		_, err := VerifyToken(token, &other.PublicKey, fixedClock(1700000010, 0))
		assert.Error(t, err)
	})
	t.Run("expired", func(t *testing.T) {
		_, err := VerifyToken(token, issuer.PublicKey(), fixedClock(1700000120, 0))
		assert.Error(t, err)
	})
}

func TestIssueToken_UsesSystemClockByDefault(t *testing.T) {
	creds, _ := testCredentials(t)

	before := time.Now().Unix()
	token, err := IssueToken(creds, 90*time.Second)
	require.NoError(t, err)
	after := time.Now().Unix()

	payload := decodeSegment(t, strings.Split(token, ".")[1])
	iat := int64(payload["iat"].(float64))
	exp := int64(payload["exp"].(float64))
	assert.GreaterOrEqual(t, iat, before)
	assert.LessOrEqual(t, iat, after+1)
	assert.Equal(t, int64(90), exp-iat)
}

func TestNewTokenIssuer_Errors(t *testing.T) {
	valid, _ := testCredentials(t)
	_, p384 := newTestKey(t, elliptic.P384())

	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	edDER, err := x509.MarshalPKCS8PrivateKey(edKey)
	require.NoError(t, err)
	edPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: edDER})

	tests := []struct {
		name    string
		mutate  func(c *Credentials)
		wantErr error
	}{
		{"missing team id", func(c *Credentials) { c.TeamID = "" }, ErrMissingCredential},
		{"missing service id", func(c *Credentials) { c.ServiceID = "" }, ErrMissingCredential},
		{"missing key id", func(c *Credentials) { c.KeyID = "" }, ErrMissingCredential},
		{"missing private key", func(c *Credentials) { c.PrivateKey = nil }, ErrMissingCredential},
		{"P-384 key", func(c *Credentials) { c.PrivateKey = p384 }, ErrUnsupportedKey},
		{"ed25519 key", func(c *Credentials) { c.PrivateKey = edPEM }, ErrUnsupportedKey},
		{"not PEM", func(c *Credentials) { c.PrivateKey = []byte("not a key") }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := valid
			tt.mutate(&creds)

			issuer, err := NewTokenIssuer(creds)
			require.Error(t, err)
			assert.Nil(t, issuer)

			var signingErr *SigningError
			require.True(t, errors.As(err, &signingErr), "want *SigningError, got %T", err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIssueToken_InvalidExpiry(t *testing.T) {
	creds, _ := testCredentials(t)
	issuer, err := NewTokenIssuer(creds)
	require.NoError(t, err)

	for _, d := range []time.Duration{0, -time.Minute, 500 * time.Millisecond} {
		_, err := issuer.IssueToken(d)
		var signingErr *SigningError
		assert.True(t, errors.As(err, &signingErr), "expireAfter=%v", d)
		assert.ErrorIs(t, err, ErrInvalidExpiry)
	}
}

func TestParsePrivateKey_SEC1(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	parsed, err := ParsePrivateKey(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}
