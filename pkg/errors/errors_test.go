package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxcat/boxcat/pkg/errors"
)

func TestParseError(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := errors.WrapParse("/boxes/widget-1.0.0.metadata.json", cause)

	assert.ErrorIs(t, err, errors.ErrParse)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "widget-1.0.0.metadata.json")

	var perr *errors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/boxes/widget-1.0.0.metadata.json", perr.Path)
}

func TestParseErrorWithMessage(t *testing.T) {
	err := errors.NewParseError("widget.metadata.json", `missing required "name" field`, errors.ErrInvalidInput)

	assert.Contains(t, err.Error(), `missing required "name" field`)
	assert.ErrorIs(t, err, errors.ErrParse)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestVersionParseError(t *testing.T) {
	cause := stderrors.New("invalid semantic version")
	err := errors.WrapVersion("widget.metadata.json", "banana", cause)

	assert.ErrorIs(t, err, errors.ErrVersionParse)
	assert.NotErrorIs(t, err, errors.ErrParse)
	assert.Contains(t, err.Error(), `"banana"`)

	var verr *errors.VersionParseError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "banana", verr.Version)
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, errors.WrapParse("x", nil))
	assert.NoError(t, errors.WrapVersion("x", "1.0.0", nil))
}
