package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"reset_token", "abc",
		"email", "a@b.co",
		"fabric_id", "f-1",
	})
	require.Len(t, out, 8)
	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Equal(t, "[REDACTED]", out[5])
	assert.Equal(t, "f-1", out[7])
}

func TestSanitizeKVsHashesUserIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "7d1c"})
	require.Len(t, out, 2)
	hashed, ok := out[1].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(hashed, "hash:"))
	assert.NotContains(t, hashed, "7d1c")
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "dangling"})
	assert.Equal(t, []interface{}{"status", 200, "dangling"}, out)
}

func TestNewTestModeIsQuiet(t *testing.T) {
	log, err := New("test")
	require.NoError(t, err)
	log.Info("nothing to see", "k", "v")
	log.With("service", "x").Warn("still nothing")
}

func TestSanitizeKVsNestedAndJWT(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	out := sanitizeKVs([]interface{}{
		"body", map[string]interface{}{"new_password": "x", "product_name": "Shirt"},
		"header", jwtish,
	})
	require.Len(t, out, 4)
	body, ok := out[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", body["new_password"])
	assert.Equal(t, "Shirt", body["product_name"])
	assert.Equal(t, "[REDACTED]", out[3])
}
