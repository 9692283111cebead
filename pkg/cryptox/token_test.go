package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = GenerateToken(0)
	require.Error(t, err)
}

func TestGenerateHexToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateHexToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 64)

	_, err = hex.DecodeString(tok)
	require.NoError(t, err)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("token-value")
	require.Equal(t, fp, FingerprintToken("token-value"))
	require.NotEqual(t, fp, FingerprintToken("other-value"))
	require.Len(t, fp, 43)
}
