package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPEM(t *testing.T, key *ecdsa.PrivateKey) string {
	t.Helper()

	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "private.pem")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	err = pem.Encode(f, &pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	require.NoError(t, err)

	return path
}

func TestLoadECDSAPrivateKey(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		loaded, err := LoadECDSAPrivateKey(writeKeyPEM(t, key))
		require.NoError(t, err)
		assert.True(t, key.Equal(loaded))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadECDSAPrivateKey(filepath.Join(t.TempDir(), "nope.pem"))
		assert.Error(t, err)
	})

	t.Run("not pem", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.pem")
		require.NoError(t, os.WriteFile(path, []byte("not pem data"), 0o600))

		_, err := LoadECDSAPrivateKey(path)
		assert.Error(t, err)
	})

	t.Run("pem but not an ec key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.pem")
		block := &pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte("garbage")}
		require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

		_, err := LoadECDSAPrivateKey(path)
		assert.Error(t, err)
	})
}
