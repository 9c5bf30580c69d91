package utils

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturalhub/culturalhub/config"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	config.Load()
	os.Exit(m.Run())
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)
	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong guess"))
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(7, 9, "alice", SessionDuration)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.EqualValues(t, 9, claims.ProfileID)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseToken_RejectsTampered(t *testing.T) {
	token, err := GenerateToken(7, 9, "alice", SessionDuration)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = ParseToken(tampered)
	assert.Error(t, err)
}

func TestParseToken_RejectsExpired(t *testing.T) {
	token, err := GenerateToken(7, 9, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestSanitize_StripsScripts(t *testing.T) {
	out := Sanitize(`hello <script>alert("x")</script><b>world</b>`)
	assert.NotContains(t, out, "script")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "<b>world</b>")
}

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueUint([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, UniqueUint(nil))
}
