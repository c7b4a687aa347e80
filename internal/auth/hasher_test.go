package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; the format is the same.
func testHasher() *Argon2Hasher {
	return NewArgon2Hasher(HasherConfig{Memory: 1024, Time: 1, Threads: 1})
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher()
	digest, err := h.Hash("testpassword")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, digest, "testpassword")
	assert.True(t, h.Verify("testpassword", digest))
	assert.False(t, h.Verify("testpassword ", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher()
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestVerifyUsesDigestParameters(t *testing.T) {
	old := NewArgon2Hasher(HasherConfig{Memory: 2048, Time: 2, Threads: 2})
	digest, err := old.Hash("secret")
	require.NoError(t, err)

	assert.True(t, testHasher().Verify("secret", digest))
}

func TestDefaultHasherFormat(t *testing.T) {
	if testing.Short() {
		t.Skip("default cost allocates 64MiB")
	}
	h := NewArgon2Hasher(DefaultHasherConfig())
	digest, err := h.Hash("testadminpassword")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=65536,t=2,p=1$"))
	assert.True(t, h.Verify("testadminpassword", digest))
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := testHasher()
	good, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":          "",
		"plaintext":      "pw",
		"bcrypt":         "$2b$12$abcdefghijklmnopqrstuv",
		"wrong variant":  strings.Replace(good, "argon2id", "argon2i", 1),
		"wrong version":  strings.Replace(good, "v=19", "v=16", 1),
		"zero memory":    strings.Replace(good, "m=1024", "m=0", 1),
		"huge memory":    strings.Replace(good, "m=1024", "m=99999999", 1),
		"bad params":     strings.Replace(good, "m=1024,t=1,p=1", "m=x", 1),
		"bad salt":       strings.Join([]string{"", parts[1], parts[2], parts[3], "!!!", parts[5]}, "$"),
		"empty key":      strings.Join([]string{"", parts[1], parts[2], parts[3], parts[4], ""}, "$"),
		"extra segments": good + "$extra",
	}
	for name, digest := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, h.Verify("pw", digest))
		})
	}
}

func TestHasherConfigFromEnv(t *testing.T) {
	t.Setenv("ARGON2_MEMORY_KIB", "32768")
	t.Setenv("ARGON2_TIME", "3")
	t.Setenv("ARGON2_THREADS", "999")
	cfg := HasherConfigFromEnv()
	assert.Equal(t, uint32(32768), cfg.Memory)
	assert.Equal(t, uint32(3), cfg.Time)
	assert.Equal(t, uint8(1), cfg.Threads)
}
