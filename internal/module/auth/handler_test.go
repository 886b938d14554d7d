package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", ErrExpiredToken, http.StatusUnauthorized},
		{"revoked token", ErrRevokedToken, http.StatusUnauthorized},
		{"invalid provider", ErrInvalidOAuthProvider, http.StatusBadRequest},
		{"invalid state", ErrInvalidOAuthState, http.StatusBadRequest},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},

		// The service wraps these with exchange detail; they must
		// still map to the client's status, not a 500.
		{
			"wrapped invalid code",
			fmt.Errorf("%w: %v", ErrInvalidOAuthCode, errors.New("exchange refused")),
			http.StatusBadRequest,
		},
		{
			"wrapped oauth failure",
			fmt.Errorf("%w: %v", ErrOAuthFailed, errors.New("userinfo 502")),
			http.StatusBadRequest,
		},
	}

	h := NewHandler(nil, nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.handleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
