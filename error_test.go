package pagemark_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pagemark/pagemark"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code from application error", func(t *testing.T) {
		t.Parallel()

		err := pagemark.Errorf(pagemark.EFORBIDDEN, "domain is blocked")

		assert.Equal(t, pagemark.EFORBIDDEN, pagemark.ErrorCode(err))
	})

	t.Run("returns code from wrapped application error", func(t *testing.T) {
		t.Parallel()

		inner := pagemark.Errorf(pagemark.EINVALID, "bad URL")
		err := fmt.Errorf("validating: %w", inner)

		assert.Equal(t, pagemark.EINVALID, pagemark.ErrorCode(err))
	})

	t.Run("returns internal for non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagemark.EINTERNAL, pagemark.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, pagemark.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message from application error", func(t *testing.T) {
		t.Parallel()

		err := pagemark.Errorf(pagemark.ETIMEOUT, "render timed out after %ds", 30)

		assert.Equal(t, "render timed out after 30s", pagemark.ErrorMessage(err))
	})

	t.Run("masks non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error", pagemark.ErrorMessage(errors.New("boom")))
	})
}
