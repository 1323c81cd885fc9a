package pagination_test

import (
	"testing"
	"time"

	"github.com/quollbooks/quollbooks/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 6, 15, 9, 30, 12, 345678000, time.UTC)

	token := pagination.EncodeToken(date, createdAt)
	gotDate, gotCreatedAt, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, gotDate.Equal(date))
	assert.True(t, gotCreatedAt.Equal(createdAt))
}

func TestDecodeToken_NotBase64(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("2025-06-15T00:00:00Z")
	_, _, err := pagination.DecodeToken(token)
	assert.Error(t, err)
}

func TestDecodeToken_BadTimestamp(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("yesterday", "2025-06-15T00:00:00Z")
	_, _, err := pagination.DecodeToken(token)
	assert.Error(t, err)
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	fields := []string{"2025-06-15T00:00:00Z", "INV-0042", "9f2c"}

	token := pagination.EncodeMultiFieldToken(fields...)
	got, err := pagination.DecodeMultiFieldToken(token)

	require.NoError(t, err)
	assert.Equal(t, fields, got)
}
