package errors

import (
	"net/http"
)

// StatusCode maps an error to the HTTP status the gateway responds with.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch Code(err) {
	case CodeNotFound, CodeVersionNotFound:
		return http.StatusNotFound
	case CodeNameConflict, CodeVersionExists, CodeAlreadyOwned,
		CodeHasVersions, CodePrivateLicense, CodeLicenseNotRequired, CodeNotPrivate:
		return http.StatusConflict
	case CodeNotOwner:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInsufficientPayment, CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case CodeEmptyContentRef, CodeInvalidAddress, CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
