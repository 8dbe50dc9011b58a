// Defined errors used across the survey service. Each error carries a
// numeric code and the HTTP status it maps to, so handlers can return them
// without translation and callers can match on the code.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
}

func (e DefinedError) Error() string {
	return e.Err
}

// WithFormattedMessage returns a copy of the error with its message treated
// as a format string.
func WithFormattedMessage(err DefinedError, args ...interface{}) DefinedError {
	err.Err = fmt.Sprintf(err.Err, args...)
	return err
}

var (
	// 1*** - generic errors
	ErrGeneric         = DefinedError{Code: 1000, StatusCode: http.StatusInternalServerError, Err: "internal error"}
	ErrBadRequest      = DefinedError{Code: 1001, StatusCode: http.StatusBadRequest, Err: "malformed request"}
	ErrSurveyNotFound  = DefinedError{Code: 1002, StatusCode: http.StatusNotFound, Err: "survey not found"}
	ErrSurveyForbidden = DefinedError{Code: 1003, StatusCode: http.StatusForbidden, Err: "not have permissions to perform this action"}

	// 2*** - survey validation errors
	ErrSurveyValidation      = DefinedError{Code: 2001, StatusCode: http.StatusBadRequest, Err: "survey validation failed: %s"}
	ErrLanguageInvalid       = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "invalid language code %s"}
	ErrBaseLanguageRequired  = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "survey base language is required"}
	ErrDuplicateLanguage     = DefinedError{Code: 2004, StatusCode: http.StatusBadRequest, Err: "language %s listed more than once"}
	ErrSurveyIDTaken         = DefinedError{Code: 2005, StatusCode: http.StatusConflict, Err: "survey id %s is already in use"}
	ErrSurveyAlreadyActive   = DefinedError{Code: 2006, StatusCode: http.StatusConflict, Err: "survey %s is already active"}
	ErrSurveyTokensDisabled  = DefinedError{Code: 2007, StatusCode: http.StatusConflict, Err: "survey %s has no tokens table"}
	ErrSurveyTokensProvision = DefinedError{Code: 2008, StatusCode: http.StatusInternalServerError, Err: "provisioning tokens table for survey %s failed"}

	// 3*** - identifier allocation
	ErrSurveyIDExhausted = DefinedError{Code: 3001, StatusCode: http.StatusConflict, Err: "survey id space exhausted after bounded retries"}

	// 4*** - localization integrity
	ErrMissingLocalization = DefinedError{Code: 4001, StatusCode: http.StatusInternalServerError, Err: "no language settings found for survey %s"}

	// 5*** - schema lifecycle
	ErrCascadeDeleteFailed = DefinedError{Code: 5001, StatusCode: http.StatusInternalServerError, Err: "cascade delete failed on steps: %s"}
	ErrSchemaConflict      = DefinedError{Code: 5002, StatusCode: http.StatusConflict, Err: "unexpected state of table %s"}
)

// CascadeDeleteError reports which load-bearing steps of a cascading survey
// deletion failed, so a caller can reconcile the leftover schema objects.
type CascadeDeleteError struct {
	SurveyID    string
	FailedSteps []string
}

func (e *CascadeDeleteError) Error() string {
	return fmt.Sprintf("cascade delete of survey %s failed on steps: %s", e.SurveyID, strings.Join(e.FailedSteps, ", "))
}

// Defined maps the error onto its wire representation.
func (e *CascadeDeleteError) Defined() DefinedError {
	return WithFormattedMessage(ErrCascadeDeleteFailed, strings.Join(e.FailedSteps, ", "))
}
