package errprocess

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"classifieds_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
		public string
	}{
		{"not found", NotFound("op", "conversation not found"), KindNotFound, http.StatusNotFound, "conversation not found"},
		{"forbidden", Forbidden("op", "no"), KindForbidden, http.StatusForbidden, "no"},
		{"validation", Validation("op", "content is required"), KindValidation, http.StatusBadRequest, "content is required"},
		{"internal", Internal("op", errors.New("mongo: socket closed")), KindInternal, http.StatusInternalServerError, InternalMessage},
		{"plain error", errors.New("boom"), KindInternal, http.StatusInternalServerError, InternalMessage},
		{"wrapped", fmt.Errorf("ctx: %w", Forbidden("op", "no")), KindForbidden, http.StatusForbidden, "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, StatusCode(tt.err))
			assert.Equal(t, tt.public, PublicMessage(tt.err))
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Internal("conversation.find", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conversation.find")
	assert.NotContains(t, PublicMessage(err), "refused")
}
