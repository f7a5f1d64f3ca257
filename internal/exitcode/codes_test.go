package exitcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/exitcode"
)

func TestCodeValues(t *testing.T) {
	assert.Equal(t, 0, exitcode.Success)
	assert.Equal(t, 1, exitcode.Error)
	assert.Equal(t, 2, exitcode.AuthRequired)
	assert.Equal(t, 3, exitcode.ExtractionFailed)
	assert.Equal(t, 4, exitcode.MaxErrors)
	assert.Equal(t, 5, exitcode.ReviewPending)
	assert.Equal(t, 130, exitcode.Interrupted)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Success", exitcode.Name(exitcode.Success))
	assert.Equal(t, "AuthRequired", exitcode.Name(exitcode.AuthRequired))
	assert.Equal(t, "ReviewPending", exitcode.Name(exitcode.ReviewPending))
	assert.Equal(t, "Interrupted", exitcode.Name(exitcode.Interrupted))
	assert.Equal(t, "unknown", exitcode.Name(42))
}
