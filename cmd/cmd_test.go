package cmd

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T, baseURL string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	t.Chdir(t.TempDir())
	t.Setenv("WEATHERKIT_APPLE_TEAM_ID", "AT7K7Y62H6")
	t.Setenv("WEATHERKIT_APPLE_SERVICE_ID", "com.example.weather")
	t.Setenv("WEATHERKIT_APPLE_KEY_ID", "3JSPU8AVG9")
	t.Setenv("WEATHERKIT_APPLE_PRIVATE_KEY", string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})))
	t.Setenv("WEATHERKIT_APPLE_BASE_URL", baseURL)
	t.Setenv("WEATHERKIT_LOGGING_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCmd_Verify(t *testing.T) {
	setupEnv(t, "https://weatherkit.apple.com/api/v1")

	out, err := run(t, "token", "--ttl", "15m", "--verify")
	require.NoError(t, err)

	token, claimsJSON, found := strings.Cut(out, "\n")
	require.True(t, found)
	assert.Equal(t, 2, strings.Count(token, "."))

	var claims map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(claimsJSON), &claims))
	assert.Equal(t, "3JSPU8AVG9", claims["kid"])
	assert.Equal(t, "AT7K7Y62H6.com.example.weather", claims["id"])
	assert.Equal(t, "AT7K7Y62H6", claims["iss"])
	assert.Equal(t, "com.example.weather", claims["sub"])
}

func TestAvailabilityCmd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/availability/51.5/-0.12/", r.URL.Path)
		assert.Equal(t, "GB", r.URL.Query().Get("country"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		_, _ = w.Write([]byte(`["currentWeather","forecastDaily"]`))
	}))
	defer upstream.Close()
	setupEnv(t, upstream.URL)

	out, err := run(t, "availability", "--lat", "51.5", "--lng", "-0.12", "--country", "GB")
	require.NoError(t, err)
	assert.JSONEq(t, `["currentWeather","forecastDaily"]`, out)
}

func TestForecastCmd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dataSets=currentWeather", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"currentWeather":{"temperature":12.5,"uvIndex":3}}`))
	}))
	defer upstream.Close()
	setupEnv(t, upstream.URL)

	out, err := run(t, "forecast", "--lat", "51.5", "--lng", "-0.12", "--datasets", "currentWeather")
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentWeather":{"temperature":12.5,"uvIndex":3}}`, out)
}

func TestQueryCmd_Errors(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	_, err := run(t, "forecast", "--lat", "1", "--lng", "2", "--datasets", "pollen")
	assert.ErrorContains(t, err, "unknown data set")

	_, err = run(t, "availability", "--lat", "95", "--lng", "2")
	assert.ErrorContains(t, err, "latitude")

	_, err = run(t, "availability", "--lng", "2")
	assert.ErrorContains(t, err, "lat")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	setupEnv(t, "https://weatherkit.apple.com/api/v1")
	t.Setenv("WEATHERKIT_APPLE_TEAM_ID", "short")

	_, err := run(t, "token")
	assert.ErrorContains(t, err, "invalid config")
}
