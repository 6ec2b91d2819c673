package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	transactionDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 14, 9, 30, 12, 345678000, time.UTC)

	token := EncodeToken(transactionDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreatedAt, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, transactionDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreatedAt))
}

func TestDecodeTokenInvalidBase64(t *testing.T) {
	_, _, err := DecodeToken("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestDecodeTokenMissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("2025-03-14T00:00:00Z"))
	_, _, err := DecodeToken(token)
	assert.Error(t, err)
}

func TestDecodeTokenBadTimestamp(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|today"))
	_, _, err := DecodeToken(token)
	assert.Error(t, err)
}

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)

	token := EncodeDateBasedToken(createdAt)
	got, err := DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(got))
}

func TestDecodeDateBasedTokenInvalid(t *testing.T) {
	_, err := DecodeDateBasedToken("%%%")
	assert.Error(t, err)
}
