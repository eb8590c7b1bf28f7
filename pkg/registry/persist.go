package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Persister mirrors committed registry state into durable storage. The
// in-memory store stays authoritative; each method is called after the
// corresponding mutation has been applied. Implementations must tolerate
// repeated calls with the same data.
type Persister interface {
	SaveLibrary(ctx context.Context, info LibraryInfo) error
	DeleteLibrary(ctx context.Context, name string) error
	SaveVersion(ctx context.Context, info VersionInfo) error
	SetAuthorization(ctx context.Context, name string, addr common.Address, granted bool) error
	SetLicense(ctx context.Context, name string, addr common.Address) error
	SaveBalance(ctx context.Context, addr common.Address, balance *big.Int) error
}

// NopPersister discards all writes. Used in tests and when the service
// runs without a durable store.
type NopPersister struct{}

func (NopPersister) SaveLibrary(context.Context, LibraryInfo) error { return nil }
func (NopPersister) DeleteLibrary(context.Context, string) error    { return nil }
func (NopPersister) SaveVersion(context.Context, VersionInfo) error { return nil }
func (NopPersister) SetAuthorization(context.Context, string, common.Address, bool) error {
	return nil
}
func (NopPersister) SetLicense(context.Context, string, common.Address) error { return nil }
func (NopPersister) SaveBalance(context.Context, common.Address, *big.Int) error {
	return nil
}
