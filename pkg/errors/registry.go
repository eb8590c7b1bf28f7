package errors

// Constructors for the registry error taxonomy. The messages follow the
// wording of the public contract; handlers and clients branch on the code.

// NotFound reports that no library is registered under name.
func NotFound(name string) *Error {
	return Newf(CodeNotFound, "library %q does not exist", name)
}

// NameConflict reports that name is already registered.
func NameConflict(name string) *Error {
	return Newf(CodeNameConflict, "library name %q already exists", name)
}

// NotOwner reports that the caller is not the library owner.
func NotOwner(name string) *Error {
	return Newf(CodeNotOwner, "caller is not the owner of library %q", name)
}

// HasVersions reports a delete attempt on a library with published versions.
func HasVersions(name string) *Error {
	return Newf(CodeHasVersions, "cannot delete library %q with published versions", name)
}

// VersionExists reports that the version identifier is already recorded.
func VersionExists(name, version string) *Error {
	return Newf(CodeVersionExists, "version %s of library %q already exists", version, name)
}

// VersionNotFound reports that the version is not recorded.
func VersionNotFound(name, version string) *Error {
	return Newf(CodeVersionNotFound, "version %s of library %q does not exist", version, name)
}

// EmptyContentRef reports a publish with no content reference.
func EmptyContentRef() *Error {
	return New(CodeEmptyContentRef, "content reference cannot be empty")
}

// PrivateLicense reports an attempt to require a purchasable license on a
// private library. Private libraries gate access through authorization only.
func PrivateLicense(name string) *Error {
	return Newf(CodePrivateLicense,
		"private library %q cannot require a license; use direct authorization", name)
}

// LicenseNotRequired reports a purchase against a library without a
// required license.
func LicenseNotRequired(name string) *Error {
	return Newf(CodeLicenseNotRequired, "license not required for library %q", name)
}

// AlreadyOwned reports that the buyer already holds a license.
func AlreadyOwned(name string) *Error {
	return Newf(CodeAlreadyOwned, "license for library %q already owned by this address", name)
}

// InsufficientPayment reports that the offered payment is below the fee.
func InsufficientPayment(name string) *Error {
	return Newf(CodeInsufficientPayment,
		"insufficient payment for library %q: exact fee or more required", name)
}

// NotPrivate reports an authorization operation on a public library.
func NotPrivate(name string) *Error {
	return Newf(CodeNotPrivate, "library %q is not private", name)
}

// InvalidAddress reports use of the zero address as an identity.
func InvalidAddress() *Error {
	return New(CodeInvalidAddress, "invalid address")
}

// InsufficientFunds reports that a ledger account cannot cover an amount.
func InsufficientFunds(addr string) *Error {
	return Newf(CodeInsufficientFunds, "insufficient funds in account %s", addr)
}

// Unauthenticated reports a request with no verifiable caller identity.
func Unauthenticated(message string) *Error {
	if message == "" {
		message = "caller identity required"
	}
	return New(CodeUnauthenticated, message)
}

// Internal reports an unexpected failure.
func Internal(message string, cause error) *Error {
	if message == "" {
		message = "internal error"
	}
	return Wrap(cause, CodeInternal, message)
}
