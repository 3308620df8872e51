package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("NewDomainError", func(t *testing.T) {
		err := NewDomainError(ErrCodeNotFound, "profile not found")

		assert.NotNil(t, err)
		assert.Equal(t, ErrCodeNotFound, err.Code)
		assert.Equal(t, "profile not found", err.Message)
		assert.Equal(t, "[NOT_FOUND] profile not found", err.Error())
		assert.NotNil(t, err.Details)
		assert.Nil(t, err.Err)
	})

	t.Run("NewDomainErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewDomainErrorWithCause(ErrCodeXboxAPI, "failed to fetch presence", cause)

		assert.NotNil(t, err)
		assert.Equal(t, ErrCodeXboxAPI, err.Code)
		assert.Equal(t, "failed to fetch presence", err.Message)
		assert.Equal(t, "[XBOX_API_ERROR] failed to fetch presence: connection refused", err.Error())
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails", func(t *testing.T) {
		err := NewDomainError(ErrCodeInvalidInput, "invalid gamertag").
			WithDetails("field", "gamertag").
			WithDetails("value", "")

		assert.Equal(t, "gamertag", err.Details["field"])
		assert.Equal(t, "", err.Details["value"])
	})
}

func TestCommonErrors(t *testing.T) {
	t.Run("ErrNotFound", func(t *testing.T) {
		err := ErrNotFound("status record", "xbox_gamer_last_status.json")

		assert.Equal(t, ErrCodeNotFound, err.Code)
		assert.Contains(t, err.Message, "status record not found")
		assert.Equal(t, "status record", err.Details["resource"])
		assert.Equal(t, "xbox_gamer_last_status.json", err.Details["id"])
	})

	t.Run("ErrInvalidInput", func(t *testing.T) {
		err := ErrInvalidInput("check_interval", "must be positive")

		assert.Equal(t, ErrCodeInvalidInput, err.Code)
		assert.Contains(t, err.Message, "invalid check_interval")
		assert.Contains(t, err.Message, "must be positive")
		assert.Equal(t, "check_interval", err.Details["field"])
		assert.Equal(t, "must be positive", err.Details["reason"])
	})

	t.Run("ErrInvalidState", func(t *testing.T) {
		err := ErrInvalidState("monitor", "terminating", "poll")

		assert.Equal(t, ErrCodeInvalidState, err.Code)
		assert.Contains(t, err.Message, "invalid state transition for monitor")
		assert.Contains(t, err.Message, "cannot poll in state terminating")
		assert.Equal(t, "monitor", err.Details["entity"])
		assert.Equal(t, "terminating", err.Details["currentState"])
		assert.Equal(t, "poll", err.Details["attemptedAction"])
	})
}

func TestXboxErrors(t *testing.T) {
	t.Run("ErrAuth", func(t *testing.T) {
		err := ErrAuth("refresh token expired")

		assert.Equal(t, ErrCodeAuth, err.Code)
		assert.Contains(t, err.Message, "authentication error")
		assert.Contains(t, err.Message, "refresh token expired")
		assert.Equal(t, "refresh token expired", err.Details["reason"])
	})

	t.Run("ErrAuthWithCause", func(t *testing.T) {
		cause := errors.New("invalid_grant")
		err := ErrAuthWithCause("token refresh rejected", cause)

		assert.Equal(t, ErrCodeAuth, err.Code)
		assert.Contains(t, err.Message, "token refresh rejected")
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("ErrIdentityNotFound", func(t *testing.T) {
		err := ErrIdentityNotFound("SomeGamer")

		assert.Equal(t, ErrCodeIdentity, err.Code)
		assert.Contains(t, err.Message, "cannot resolve identity for gamertag SomeGamer")
		assert.Equal(t, "SomeGamer", err.Details["gamertag"])
	})

	t.Run("ErrXboxAPI", func(t *testing.T) {
		err := ErrXboxAPI("get_presence", 502, "Bad Gateway")

		assert.Equal(t, ErrCodeXboxAPI, err.Code)
		assert.Contains(t, err.Message, "xbox API error in get_presence")
		assert.Equal(t, "get_presence", err.Details["operation"])
		assert.Equal(t, 502, err.Details["statusCode"])
		assert.Equal(t, "Bad Gateway", err.Details["response"])
	})

	t.Run("ErrPresenceUnavailable", func(t *testing.T) {
		err := ErrPresenceUnavailable("SomeGamer", "empty state field")

		assert.Equal(t, ErrCodePresence, err.Code)
		assert.Contains(t, err.Message, "presence unavailable for SomeGamer")
		assert.Equal(t, "SomeGamer", err.Details["gamertag"])
		assert.Equal(t, "empty state field", err.Details["reason"])
	})
}

func TestPersistenceErrors(t *testing.T) {
	t.Run("ErrPersistence", func(t *testing.T) {
		err := ErrPersistence("save", "/tmp/status.json", "disk full")

		assert.Equal(t, ErrCodePersistence, err.Code)
		assert.Contains(t, err.Message, "persistence error in save")
		assert.Contains(t, err.Message, "disk full")
		assert.Equal(t, "save", err.Details["operation"])
		assert.Equal(t, "/tmp/status.json", err.Details["path"])
	})

	t.Run("ErrPersistenceWithCause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := ErrPersistenceWithCause("load", "/tmp/status.json", cause)

		assert.Equal(t, ErrCodePersistence, err.Code)
		assert.Contains(t, err.Message, "persistence error in load")
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("ErrPathTraversal", func(t *testing.T) {
		err := ErrPathTraversal("../../etc/passwd")

		assert.Equal(t, ErrCodePersistence, err.Code)
		assert.Contains(t, err.Message, "path contains directory traversal")
		assert.Equal(t, "../../etc/passwd", err.Details["path"])
	})
}

func TestTimezoneErrors(t *testing.T) {
	t.Run("ErrTimezone", func(t *testing.T) {
		err := ErrTimezone("parse", "invalid timezone format")

		assert.Equal(t, ErrCodeTimezone, err.Code)
		assert.Contains(t, err.Message, "timezone error in parse")
		assert.Contains(t, err.Message, "invalid timezone format")
		assert.Equal(t, "parse", err.Details["operation"])
		assert.Equal(t, "invalid timezone format", err.Details["reason"])
	})

	t.Run("ErrTimezoneDetection", func(t *testing.T) {
		err := ErrTimezoneDetection("UTC")

		assert.Equal(t, ErrCodeTimezone, err.Code)
		assert.Contains(t, err.Message, "failed to detect system timezone")
		assert.Contains(t, err.Message, "using fallback")
		assert.Equal(t, "UTC", err.Details["fallback"])
	})

	t.Run("ErrTimezoneParse", func(t *testing.T) {
		cause := errors.New("unknown timezone")
		err := ErrTimezoneParse("Invalid/Zone", cause)

		assert.Equal(t, ErrCodeTimezone, err.Code)
		assert.Contains(t, err.Message, "failed to parse timezone")
		assert.Contains(t, err.Message, "Invalid/Zone")
		assert.Equal(t, "Invalid/Zone", err.Details["timezoneName"])
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestErrorCodeHelpers(t *testing.T) {
	t.Run("IsErrorCode", func(t *testing.T) {
		err := ErrAuth("token expired")

		assert.True(t, IsErrorCode(err, ErrCodeAuth))
		assert.False(t, IsErrorCode(err, ErrCodeXboxAPI))
		assert.False(t, IsErrorCode(errors.New("plain"), ErrCodeAuth))
		assert.False(t, IsErrorCode(nil, ErrCodeAuth))
	})

	t.Run("GetErrorCode", func(t *testing.T) {
		assert.Equal(t, ErrCodePresence, GetErrorCode(ErrPresenceUnavailable("g", "empty")))
		assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	})
}

func TestLooksAuthRelated(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"auth domain error", ErrAuth("expired"), true},
		{"token in text", errors.New("XSTS token rejected"), true},
		{"validation in text", errors.New("claim validation failed"), true},
		{"auth in text", errors.New("unauthorized request"), true},
		{"plain network error", errors.New("connection reset by peer"), false},
		{"timeout", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksAuthRelated(tt.err))
		})
	}
}
