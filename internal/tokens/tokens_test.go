package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	subject := uuid.NewString()

	token, err := Sign(subject, 2*time.Hour, secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Verify(token, secret)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestVerify_ExpiredToken(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	token, err := Sign(uuid.NewString(), -time.Minute, secret)
	require.NoError(t, err)

	_, err = Verify(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Sign(uuid.NewString(), time.Hour, []byte("secret-a"))
	require.NoError(t, err)

	_, err = Verify(token, []byte("secret-b"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	_, err := Verify("not-a-jwt", []byte("secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
