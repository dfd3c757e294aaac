package crypto

import (
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	codec, err := NewCodecWithKey(key)
	require.NoError(t, err)
	return codec
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	amounts := []string{"0.01", "1", "42.50", "1234567.89", "999999999.99"}
	for _, raw := range amounts {
		amount, err := decimal.NewFromString(raw)
		require.NoError(t, err)

		blob, err := codec.Encrypt(amount)
		require.NoError(t, err)

		got, err := codec.Decrypt(blob)
		require.NoError(t, err)
		assert.True(t, amount.Equal(got), "want %s, got %s", amount, got)
	}
}

func TestCodecNonDeterministic(t *testing.T) {
	codec := newTestCodec(t)
	amount := decimal.NewFromFloat(100.50)

	first, err := codec.Encrypt(amount)
	require.NoError(t, err)
	second, err := codec.Encrypt(amount)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCodecWrongKey(t *testing.T) {
	blob, err := newTestCodec(t).Encrypt(decimal.NewFromInt(500))
	require.NoError(t, err)

	_, err = newTestCodec(t).Decrypt(blob)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestCodecCorruptBlob(t *testing.T) {
	codec := newTestCodec(t)

	blob, err := codec.Encrypt(decimal.NewFromInt(500))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xff
	_, err = codec.Decrypt(blob)
	assert.ErrorIs(t, err, ErrCorruptData)

	_, err = codec.Decrypt([]byte("short"))
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestNewCodecGeneratesAndReusesKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "keys", "crypto.key")

	first, err := NewCodec(keyPath)
	require.NoError(t, err)

	blob, err := first.Encrypt(decimal.NewFromFloat(12.34))
	require.NoError(t, err)

	second, err := NewCodec(keyPath)
	require.NoError(t, err)

	got, err := second.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "12.34", got.StringFixed(2))
}
