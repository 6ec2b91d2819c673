package pgsql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
)

func TestStorageError_SerializationFailureBecomesConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: serializationFailure}

	err := storageError("failed to insert financial transactions", pgErr)

	assert.ErrorIs(t, err, apperrors.ErrConflict, "a 40001 on any statement is retryable, not internal")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestStorageError_OtherErrorsStayInternal(t *testing.T) {
	err := storageError("failed to insert financial transactions", errors.New("connection reset"))

	assert.NotErrorIs(t, err, apperrors.ErrConflict)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
}

func TestIsSerializationFailure_SeesThroughWrapping(t *testing.T) {
	// Commit wraps the driver error in an AppError before callers inspect it.
	wrapped := apperrors.NewAppError(500, "failed to commit transaction", &pgconn.PgError{Code: serializationFailure})

	assert.True(t, isSerializationFailure(wrapped))
	assert.False(t, isSerializationFailure(errors.New("some other failure")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: serializationFailure}))
	assert.False(t, isUniqueViolation(errors.New("not a pg error")))
}
