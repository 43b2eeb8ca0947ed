package harvest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := harvest.Errorf(harvest.EINVALID, "output path %q is not a directory", "blogs")

	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	assert.Equal(t, "output path \"blogs\" is not a directory", harvest.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("setup: %w", harvest.Errorf(harvest.ENOTFOUND, "missing"))

	assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	assert.Equal(t, "missing", harvest.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, harvest.EINTERNAL, harvest.ErrorCode(err))
	assert.Equal(t, "Internal error", harvest.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, harvest.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, harvest.ErrorMessage(nil))
}
