package zoomphone

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokenSource(t *testing.T) {
	token, err := StaticTokenSource("abc").Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = StaticTokenSource("").Token()
	require.Error(t, err)
}

func TestJWTSourceClaims(t *testing.T) {
	source := NewJWTSource("key", "secret", 30*time.Minute)
	now := time.Date(2020, 8, 21, 22, 0, 0, 0, time.UTC)
	source.now = func() time.Time { return now }

	token, err := source.Token()
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]string
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, "HS256", header["alg"])
	assert.Equal(t, "JWT", header["typ"])

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, json.Unmarshal(claimsJSON, &claims))
	assert.Equal(t, "key", claims["iss"])
	assert.Equal(t, float64(now.Add(30*time.Minute).Unix()), claims["exp"])

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), parts[2])
}

func TestJWTSourceCachesUntilNearExpiry(t *testing.T) {
	source := NewJWTSource("key", "secret", 30*time.Minute)
	now := time.Date(2020, 8, 21, 22, 0, 0, 0, time.UTC)
	source.now = func() time.Time { return now }

	first, err := source.Token()
	require.NoError(t, err)

	// well before expiry the cached token is reused
	now = now.Add(10 * time.Minute)
	second, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// within a minute of expiry a fresh token is minted
	now = now.Add(19*time.Minute + 30*time.Second)
	third, err := source.Token()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestJWTSourceRequiresCredentials(t *testing.T) {
	_, err := NewJWTSource("", "secret", 0).Token()
	require.Error(t, err)

	_, err = NewJWTSource("key", "", 0).Token()
	require.Error(t, err)
}
