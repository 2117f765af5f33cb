package password

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	encoded, err := Hash("correct-horse-battery")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("correct-horse-battery", encoded))
	assert.False(t, Verify("wrong-password", encoded))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("same-password", first))
	assert.True(t, Verify("same-password", second))
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	assert.False(t, Verify("anything", ""))
	assert.False(t, Verify("anything", "plaintext"))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1,p=4$notbase64!$alsonot!"))
	assert.False(t, Verify("anything", "$bcrypt$v=19$m=65536,t=1,p=4$YWJj$YWJj"))
}

func TestVerifyUsesEncodedParameters(t *testing.T) {
	// Hash produced with weaker parameters than the current constants.
	salt := []byte("somesalt12345678")
	weak := argon2.IDKey([]byte("legacy-password"), salt, 1, 8*1024, 1, 32)
	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		8*1024, 1, 1,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(weak),
	)

	assert.True(t, Verify("legacy-password", encoded))
	assert.False(t, Verify("not-the-password", encoded))
}
