package apierrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFormattedMessage(t *testing.T) {
	err := WithFormattedMessage(ErrLanguageInvalid, "klingon")
	assert.Equal(t, ErrLanguageInvalid.Code, err.Code)
	assert.Equal(t, "invalid language code klingon", err.Error())

	// The template itself stays untouched.
	assert.Equal(t, "invalid language code %s", ErrLanguageInvalid.Err)
}

func TestCascadeDeleteError(t *testing.T) {
	err := &CascadeDeleteError{
		SurveyID:    "123456",
		FailedSteps: []string{"drop survey_123456", "drop tokens_123456"},
	}

	assert.Contains(t, err.Error(), "123456")
	assert.Contains(t, err.Error(), "drop survey_123456")

	defined := err.Defined()
	assert.Equal(t, ErrCascadeDeleteFailed.Code, defined.Code)
	assert.Contains(t, defined.Error(), "drop tokens_123456")
}
