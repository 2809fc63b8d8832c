package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNowIST_Offset(t *testing.T) {
	name, offset := NowIST().Zone()
	assert.Equal(t, "IST", name)
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestBcryptHasher(t *testing.T) {
	h, err := NewPasswordHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)

	stored, err := h.Hash("p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", stored)
	assert.True(t, h.Verify(stored, "p1"))
	assert.False(t, h.Verify(stored, "p2"))
	assert.False(t, h.Verify("p1", "p1"), "plain stored value must not verify in bcrypt mode")
}

func TestPlaintextHasher(t *testing.T) {
	h, err := NewPasswordHasher("plaintext", 0)
	require.NoError(t, err)

	stored, err := h.Hash("p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", stored)
	assert.True(t, h.Verify(stored, "p1"))
	assert.False(t, h.Verify(stored, "P1"))
}

func TestNewPasswordHasher_UnknownMode(t *testing.T) {
	_, err := NewPasswordHasher("sha1", 0)
	assert.ErrorIs(t, err, ErrUnknownPasswordMode)
}
