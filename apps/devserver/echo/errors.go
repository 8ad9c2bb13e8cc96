package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-signup/core"
)

const invalidDataMessage = "The given data was invalid."

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders
// field errors as `{"errors": {field: [messages]}, "message": "..."}` with a 422 status.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body echo.Map

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			body = echo.Map{"message": origErr.Message}
		case validator.ValidationErrors:
			fldErrs := make(map[string][]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = append(fldErrs[vErr.Field()], vErr.Translate(core.Translator))
			}
			code = http.StatusUnprocessableEntity
			body = echo.Map{"errors": fldErrs, "message": invalidDataMessage}
		case *core.ValidationError:
			code = http.StatusUnprocessableEntity
			if origErr.Fields != nil {
				body = echo.Map{"errors": origErr.FieldErrors(), "message": invalidDataMessage}
			} else {
				body = echo.Map{"message": origErr.Error()}
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := "Server Error"
			body = echo.Map{"message": msg}
			logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{
				"method": ctx.Request().Method,
				"path":   ctx.Request().URL.Path,
			})
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			body["error"] = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
