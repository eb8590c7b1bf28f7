package registry

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Library is the authoritative record for one registered name. Owner,
// Private, and the metadata fields are fixed at registration; only the
// license configuration and the version list change afterwards.
type Library struct {
	Owner           common.Address
	Description     string
	Tags            []string
	Language        string
	Private         bool
	LicenseFee      *big.Int
	LicenseRequired bool
	Versions        []string // publish order, append-only
}

// Version is an immutable record of one published release. Deprecated is
// the only mutable field and only ever transitions false to true.
type Version struct {
	ContentRef   string
	Publisher    common.Address
	Timestamp    time.Time
	Dependencies []string // recorded verbatim, never interpreted
	Deprecated   bool
}

// RegisterParams carries the caller-supplied fields of a registration.
type RegisterParams struct {
	Name        string
	Description string
	Tags        []string
	Private     bool
	Language    string
}

// LibraryInfo is a read-model snapshot of a library record.
type LibraryInfo struct {
	Name            string         `json:"name"`
	Owner           common.Address `json:"owner"`
	Description     string         `json:"description"`
	Tags            []string       `json:"tags"`
	Private         bool           `json:"is_private"`
	Language        string         `json:"language"`
	LicenseFee      *big.Int       `json:"license_fee"`
	LicenseRequired bool           `json:"license_required"`
	Versions        []string       `json:"versions"`
}

// VersionInfo is a read-model snapshot of a version record.
type VersionInfo struct {
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	ContentRef   string         `json:"content_ref"`
	Publisher    common.Address `json:"publisher"`
	Timestamp    time.Time      `json:"timestamp"`
	Dependencies []string       `json:"dependencies"`
	Deprecated   bool           `json:"deprecated"`
}

func (l *Library) info(name string) LibraryInfo {
	return LibraryInfo{
		Name:            name,
		Owner:           l.Owner,
		Description:     l.Description,
		Tags:            append([]string(nil), l.Tags...),
		Private:         l.Private,
		Language:        l.Language,
		LicenseFee:      new(big.Int).Set(l.LicenseFee),
		LicenseRequired: l.LicenseRequired,
		Versions:        append([]string(nil), l.Versions...),
	}
}

func (v *Version) info(name, version string) VersionInfo {
	return VersionInfo{
		Name:         name,
		Version:      version,
		ContentRef:   v.ContentRef,
		Publisher:    v.Publisher,
		Timestamp:    v.Timestamp,
		Dependencies: append([]string(nil), v.Dependencies...),
		Deprecated:   v.Deprecated,
	}
}
