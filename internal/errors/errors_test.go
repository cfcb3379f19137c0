package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTexshelfErrorFormatting(t *testing.T) {
	err := NewIOError(ErrCodeIOFailed, "write failed", fmt.Errorf("disk full")).
		WithPath("/shelf/calculus/note.tex")

	msg := err.Error()
	assert.Contains(t, msg, "[ERR_IO_FAILED]")
	assert.Contains(t, msg, "/shelf/calculus/note.tex")
	assert.Contains(t, msg, "write failed")
	assert.Contains(t, msg, "disk full")
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := NewParseError(ErrCodeMetadataInvalid, "bad metadata", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestIsMatchesTypeAndCode(t *testing.T) {
	a := ErrSubjectNotFound("calculus")
	b := ErrSubjectNotFound("algebra")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, ErrNoteNotFound("algebra"))
}

func TestRecoverability(t *testing.T) {
	assert.False(t, IsRecoverable(NewProfileError(ErrCodeProfileNotFound, "no profile", nil)))
	assert.True(t, IsRecoverable(ErrSubjectNotFound("x")))
	assert.True(t, IsRecoverable(NewTemplateError(ErrCodeTemplateRender, "boom", nil)))
	assert.False(t, IsRecoverable(fmt.Errorf("plain error")))
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsProfileError(NewProfileError(ErrCodeProfileInvalid, "bad", nil)))
	assert.True(t, IsResolutionError(ErrNoteNotFound("x")))
	assert.True(t, IsTemplateError(ErrTemplateMissing("_default")))
	assert.False(t, IsProfileError(ErrNoteNotFound("x")))
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())

	c.Add("calculus", nil)
	assert.False(t, c.HasErrors())

	c.Add("calculus", ErrSubjectNotFound("calculus"))
	c.Add("algebra/note", fmt.Errorf("boom"))

	assert.True(t, c.HasErrors())
	assert.Len(t, c.Errors(), 2)
	assert.Contains(t, c.Summary(), "2 target(s) failed")
	assert.Contains(t, c.Summary(), "calculus")
}
