package errors

// Error codes categorize every failure the registry can report.
// Each code maps to an HTTP status code in http.go.
const (
	// CodeNotFound indicates the named library is not registered.
	CodeNotFound = "NOT_FOUND"

	// CodeNameConflict indicates a library with the same name already exists.
	CodeNameConflict = "NAME_CONFLICT"

	// CodeNotOwner indicates the caller is not the library owner.
	CodeNotOwner = "NOT_OWNER"

	// CodeHasVersions indicates a delete was attempted on a library with
	// published versions.
	CodeHasVersions = "HAS_VERSIONS"

	// CodeVersionExists indicates the version identifier is already taken.
	CodeVersionExists = "VERSION_EXISTS"

	// CodeVersionNotFound indicates the version is not recorded.
	CodeVersionNotFound = "VERSION_NOT_FOUND"

	// CodeEmptyContentRef indicates a publish with an empty content reference.
	CodeEmptyContentRef = "EMPTY_CONTENT_REF"

	// CodePrivateLicense indicates an attempt to require a purchasable
	// license on a private library.
	CodePrivateLicense = "PRIVATE_LICENSE"

	// CodeLicenseNotRequired indicates a purchase against a library that does
	// not require a license.
	CodeLicenseNotRequired = "LICENSE_NOT_REQUIRED"

	// CodeAlreadyOwned indicates the buyer already holds a license.
	CodeAlreadyOwned = "ALREADY_OWNED"

	// CodeInsufficientPayment indicates the offered payment is below the fee.
	CodeInsufficientPayment = "INSUFFICIENT_PAYMENT"

	// CodeNotPrivate indicates an authorization operation on a public library.
	CodeNotPrivate = "NOT_PRIVATE"

	// CodeInvalidAddress indicates the zero address was used as an identity.
	CodeInvalidAddress = "INVALID_ADDRESS"

	// CodeInsufficientFunds indicates the buyer's ledger balance cannot cover
	// the declared payment.
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"

	// CodeInvalidArgument indicates malformed request input.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeUnauthenticated indicates the request carries no valid caller identity.
	CodeUnauthenticated = "UNAUTHENTICATED"

	// CodeInternal indicates an internal error.
	CodeInternal = "INTERNAL"
)
