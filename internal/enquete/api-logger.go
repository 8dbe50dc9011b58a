// API error handling utilities. Defined errors are returned as-is with
// their status code; everything else is logged with the request context and
// collapsed into the generic error.
package enquete

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	"github.com/labstack/echo/v4"
)

// EError returns a 400-class response, mapping known error types to their
// defined representation.
func EError(c echo.Context, err error) error {
	if definedErr, ok := err.(apierrors.DefinedError); ok {
		return EErrorDefined(c, definedErr)
	}
	var cascadeErr *apierrors.CascadeDeleteError
	if errors.As(err, &cascadeErr) {
		return EErrorDefined(c, cascadeErr.Defined())
	}
	if err == nil {
		slog.Error("Unknown API error",
			"method", c.Request().Method,
			"url", c.Request().URL,
			getCallerFile(),
		)
	} else {
		slog.Error("API error",
			"err", err,
			"method", c.Request().Method,
			"url", c.Request().URL,
			getCallerFile(),
		)
	}
	return EErrorDefined(c, apierrors.ErrGeneric)
}

// EErrorMsgStatus returns the error message with an explicit status code.
func EErrorMsgStatus(c echo.Context, err error, status int) error {
	er := apierrors.ErrGeneric
	er.StatusCode = status
	if err != nil {
		// Ignore log 404 error
		if status != http.StatusNotFound {
			slog.Error("API error",
				"err", err,
				"method", c.Request().Method,
				slog.Int("status", status),
				"url", c.Request().URL,
				getCallerFile(),
			)
		}
		er.Err = err.Error()
	}
	return EErrorDefined(c, er)
}

// EErrorDefined writes the defined error as JSON with its status code. An
// unknown status falls back to 400 Bad Request.
func EErrorDefined(c echo.Context, err apierrors.DefinedError) error {
	if http.StatusText(err.StatusCode) == "" {
		err.StatusCode = http.StatusBadRequest
	}
	return c.JSON(err.StatusCode, err)
}

func getCallerFile() slog.Attr {
	_, path, no, ok := runtime.Caller(2)
	if !ok {
		return slog.Attr{}
	}
	_, file := filepath.Split(path)
	return slog.String("caller", fmt.Sprintf("%s:%d", file, no))
}
