package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Event types. One per mutating registry operation, plus ledger deposits.
const (
	TypeLibraryRegistered    = "library.registered"
	TypeLibraryDeleted       = "library.deleted"
	TypeVersionPublished     = "version.published"
	TypeVersionDeprecated    = "version.deprecated"
	TypeLicenseConfigSet     = "license.config_set"
	TypeLicensePurchased     = "license.purchased"
	TypeAuthorizationGranted = "authorization.granted"
	TypeAuthorizationRevoked = "authorization.revoked"
	TypeDepositReceived      = "ledger.deposit"
)

// LibraryRegistered is emitted when a library is created.
type LibraryRegistered struct {
	Name     string         `json:"name"`
	Owner    common.Address `json:"owner"`
	Private  bool           `json:"is_private"`
	Language string         `json:"language"`
}

// LibraryDeleted is emitted when a library record is removed.
type LibraryDeleted struct {
	Name string `json:"name"`
}

// VersionPublished is emitted when a new version record is stored.
type VersionPublished struct {
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	ContentRef string         `json:"content_ref"`
	Publisher  common.Address `json:"publisher"`
}

// VersionDeprecated is emitted when a version is marked deprecated,
// including repeat calls on an already deprecated version.
type VersionDeprecated struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LicenseConfigSet is emitted when the owner updates fee/required.
type LicenseConfigSet struct {
	Name     string   `json:"name"`
	Fee      *big.Int `json:"fee"`
	Required bool     `json:"required"`
}

// LicensePurchased is emitted on a successful purchase. Fee is the
// configured fee, not the raw payment.
type LicensePurchased struct {
	Name  string         `json:"name"`
	Buyer common.Address `json:"buyer"`
	Owner common.Address `json:"owner"`
	Fee   *big.Int       `json:"fee"`
}

// AuthorizationGranted is emitted on authorize, including repeat grants.
type AuthorizationGranted struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
}

// AuthorizationRevoked is emitted on revoke, including revokes of
// addresses that were never authorized.
type AuthorizationRevoked struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
}

// DepositReceived is emitted when funds enter a ledger account.
type DepositReceived struct {
	Address common.Address `json:"address"`
	Amount  *big.Int       `json:"amount"`
}
