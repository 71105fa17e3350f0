package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestAppError_Status(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fail", New("bad", http.StatusBadRequest).Status())
	assert.Equal(t, "fail", New("missing", http.StatusNotFound).Status())
	assert.Equal(t, "error", New("boom", http.StatusInternalServerError).Status())
}

func TestClassify_PassesAppErrorThrough(t *testing.T) {
	t.Parallel()

	original := New("custom", http.StatusTeapot)
	classified := Classify(original)

	assert.Same(t, original, classified)
}

func TestClassify_InvalidHex(t *testing.T) {
	t.Parallel()

	_, err := primitive.ObjectIDFromHex("not-a-hex")
	require.Error(t, err)

	appErr := Classify(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.True(t, appErr.Operational)
}

func TestClassify_DuplicateKey(t *testing.T) {
	t.Parallel()

	dupErr := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: natours.users index: email_1 dup key: { email: "leo@example.com" }`,
		}},
	}
	require.True(t, mongo.IsDuplicateKeyError(dupErr))

	appErr := Classify(dupErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "Duplicate field value: (email)")
}

func TestClassify_JWTErrors(t *testing.T) {
	t.Parallel()

	expired := Classify(jwt.ErrTokenExpired)
	assert.Equal(t, http.StatusUnauthorized, expired.StatusCode)
	assert.Equal(t, "Your token has expired! Please log in again", expired.Message)

	malformed := Classify(jwt.ErrTokenMalformed)
	assert.Equal(t, http.StatusUnauthorized, malformed.StatusCode)
	assert.Equal(t, "Invalid token. Please log in again", malformed.Message)
}

func TestClassify_NoDocuments(t *testing.T) {
	t.Parallel()

	appErr := Classify(mongo.ErrNoDocuments)
	assert.Equal(t, ErrDocumentNotFound, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestClassify_UnknownBecomesInternal(t *testing.T) {
	t.Parallel()

	appErr := Classify(errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.False(t, appErr.Operational)
	assert.Equal(t, "Something went wrong", appErr.Message)
}

func TestWrap_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	appErr := Wrap(cause, "wrapped", http.StatusBadGateway)

	assert.True(t, errors.Is(appErr, cause))
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
}
