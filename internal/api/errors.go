package api

import (
	"net/http"

	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

// backendError maps a non-2xx response onto the error taxonomy, carrying
// the server's own message where one was provided.
func backendError(resp *http.Response) error {
	msg := serverMessage(resp)
	code := codeForStatus(resp.StatusCode)
	return pkgerrors.New(code, msg).WithDetails(map[string]any{
		"status": resp.StatusCode,
	})
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		return pkgerrors.CodeBackend
	}
}

func wrapTransport(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func wrapInternal(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
