package servicedoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/servicedoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := servicedoc.Errorf(servicedoc.ENOTFOUND, "template %q not found", "base")

	assert.Equal(t, servicedoc.ENOTFOUND, servicedoc.ErrorCode(err))
	assert.Equal(t, "template \"base\" not found", servicedoc.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, servicedoc.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, servicedoc.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading: %w", servicedoc.Errorf(servicedoc.EINVALID, "bad templates"))

	assert.Equal(t, servicedoc.EINVALID, servicedoc.ErrorCode(err))
	assert.Equal(t, "bad templates", servicedoc.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, servicedoc.EINTERNAL, servicedoc.ErrorCode(err))
	assert.Equal(t, "Internal error.", servicedoc.ErrorMessage(err))
}
