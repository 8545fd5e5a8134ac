package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	v := New("secret")
	token, err := v.Sign("user-1", time.Hour)
	require.NoError(t, err)

	id, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	_, err = New("other").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	v := New("secret")
	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := v.Sign("user-1", time.Hour)
	require.NoError(t, err)

	_, err = New("secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{jwt.RegisteredClaims{Subject: "user-1"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = New("secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRequiresSubject(t *testing.T) {
	v := New("secret")
	token, err := v.Sign("", time.Hour)
	require.NoError(t, err)
	_, err = v.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserID(t *testing.T) {
	v := New("secret")
	token, err := v.Sign("user-1", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/favorites", nil)
	_, err = v.UserID(r)
	assert.ErrorIs(t, err, ErrMissingToken)

	r.Header.Set("Authorization", "Basic abc")
	_, err = v.UserID(r)
	assert.ErrorIs(t, err, ErrMissingToken)

	r.Header.Set("Authorization", "Bearer "+token)
	id, err := v.UserID(r)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestDisabled(t *testing.T) {
	v := New("")
	assert.False(t, v.Enabled())
	_, err := v.Sign("user-1", time.Hour)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = v.UserID(httptest.NewRequest("GET", "/", nil))
	assert.ErrorIs(t, err, ErrDisabled)
}
