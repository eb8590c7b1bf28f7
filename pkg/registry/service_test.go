package registry

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/ledger"
	"github.com/libvault/registry/pkg/logging"
)

var (
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	carol = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

// eventRecorder captures every published envelope for assertions.
type eventRecorder struct {
	envelopes []events.Envelope
}

func (r *eventRecorder) handler(env events.Envelope) error {
	r.envelopes = append(r.envelopes, env)
	return nil
}

func (r *eventRecorder) ofType(eventType string) []events.Envelope {
	var out []events.Envelope
	for _, env := range r.envelopes {
		if env.Type == eventType {
			out = append(out, env)
		}
	}
	return out
}

func (r *eventRecorder) last(t *testing.T) events.Envelope {
	t.Helper()
	require.NotEmpty(t, r.envelopes, "expected at least one event")
	return r.envelopes[len(r.envelopes)-1]
}

func newTestService(t *testing.T) (*Service, *eventRecorder) {
	t.Helper()
	logger, err := logging.NewColoredLogger(logging.ComponentRegistry, false)
	require.NoError(t, err)

	bus := events.NewBus(logger)
	rec := &eventRecorder{}
	bus.Subscribe(rec.handler)

	return NewService(ledger.New(), bus, nil, logger), rec
}

func amount(v int64) *big.Int { return big.NewInt(v) }

func register(t *testing.T, svc *Service, owner common.Address, name string, private bool) {
	t.Helper()
	err := svc.Register(context.Background(), owner, RegisterParams{
		Name:        name,
		Description: "test library",
		Tags:        []string{"util"},
		Private:     private,
		Language:    "go",
	})
	require.NoError(t, err)
}

func TestRegisterStoresRecord(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	err := svc.Register(ctx, alice, RegisterParams{
		Name:        "strutil",
		Description: "string helpers",
		Tags:        []string{"strings", "util"},
		Private:     false,
		Language:    "go",
	})
	require.NoError(t, err)

	info, err := svc.GetLibraryInfo("strutil")
	require.NoError(t, err)
	assert.Equal(t, "strutil", info.Name)
	assert.Equal(t, alice, info.Owner)
	assert.Equal(t, "string helpers", info.Description)
	assert.Equal(t, []string{"strings", "util"}, info.Tags)
	assert.False(t, info.Private)
	assert.Equal(t, "go", info.Language)
	assert.Zero(t, info.LicenseFee.Sign(), "new libraries start with a zero fee")
	assert.False(t, info.LicenseRequired)
	assert.Empty(t, info.Versions)

	env := rec.last(t)
	assert.Equal(t, events.TypeLibraryRegistered, env.Type)
	payload := env.Payload.(events.LibraryRegistered)
	assert.Equal(t, "strutil", payload.Name)
	assert.Equal(t, alice, payload.Owner)
}

func TestRegisterNameConflict(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, alice, "strutil", false)

	err := svc.Register(context.Background(), bob, RegisterParams{Name: "strutil"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNameConflict, errors.Code(err))
}

func TestGetLibraryInfoUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetLibraryInfo("ghost")
	assert.Equal(t, errors.CodeNotFound, errors.Code(err))
}

func TestDeleteFreesName(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)

	require.NoError(t, svc.Delete(ctx, alice, "strutil"))
	assert.Equal(t, events.TypeLibraryDeleted, rec.last(t).Type)

	_, err := svc.GetLibraryInfo("strutil")
	assert.Equal(t, errors.CodeNotFound, errors.Code(err))

	// The freed name can be claimed by anyone.
	require.NoError(t, svc.Register(ctx, bob, RegisterParams{Name: "strutil"}))
	info, err := svc.GetLibraryInfo("strutil")
	require.NoError(t, err)
	assert.Equal(t, bob, info.Owner)
}

func TestDeleteGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)

	err := svc.Delete(ctx, bob, "strutil")
	assert.Equal(t, errors.CodeNotOwner, errors.Code(err))

	err = svc.Delete(ctx, alice, "ghost")
	assert.Equal(t, errors.CodeNotFound, errors.Code(err))

	require.NoError(t, svc.Publish(ctx, alice, "strutil", "1.0.0", "ipfs://abc", nil))
	err = svc.Delete(ctx, alice, "strutil")
	assert.Equal(t, errors.CodeHasVersions, errors.Code(err))
}

func TestPublishStoresVersion(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)

	deps := []string{"leftpad@1.0.0", "assert >= 2"}
	require.NoError(t, svc.Publish(ctx, alice, "strutil", "1.0.0", "ipfs://abc", deps))

	info, err := svc.GetVersionInfo("strutil", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "ipfs://abc", info.ContentRef)
	assert.Equal(t, alice, info.Publisher)
	assert.False(t, info.Timestamp.IsZero())
	assert.Equal(t, deps, info.Dependencies, "dependency strings are recorded verbatim")
	assert.False(t, info.Deprecated)

	env := rec.last(t)
	assert.Equal(t, events.TypeVersionPublished, env.Type)
	payload := env.Payload.(events.VersionPublished)
	assert.Equal(t, "1.0.0", payload.Version)
	assert.Equal(t, "ipfs://abc", payload.ContentRef)
}

func TestPublishGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	require.NoError(t, svc.Publish(ctx, alice, "strutil", "1.0.0", "ipfs://abc", nil))

	err := svc.Publish(ctx, alice, "ghost", "1.0.0", "ipfs://abc", nil)
	assert.Equal(t, errors.CodeNotFound, errors.Code(err))

	err = svc.Publish(ctx, bob, "strutil", "2.0.0", "ipfs://abc", nil)
	assert.Equal(t, errors.CodeNotOwner, errors.Code(err))

	err = svc.Publish(ctx, alice, "strutil", "1.0.0", "ipfs://other", nil)
	assert.Equal(t, errors.CodeVersionExists, errors.Code(err))

	err = svc.Publish(ctx, alice, "strutil", "2.0.0", "", nil)
	assert.Equal(t, errors.CodeEmptyContentRef, errors.Code(err))
}

func TestVersionOrderPreserved(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)

	// Deliberately not sorted: publish order is what must come back.
	for _, v := range []string{"2.0.0", "1.0.0", "1.5.0"} {
		require.NoError(t, svc.Publish(ctx, alice, "strutil", v, "ipfs://"+v, nil))
	}

	versions, err := svc.GetVersionNumbers("strutil")
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.0", "1.0.0", "1.5.0"}, versions)
}

func TestDeprecateIsIdempotent(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	require.NoError(t, svc.Publish(ctx, alice, "strutil", "1.0.0", "ipfs://abc", nil))

	require.NoError(t, svc.Deprecate(ctx, alice, "strutil", "1.0.0"))
	require.NoError(t, svc.Deprecate(ctx, alice, "strutil", "1.0.0"))

	info, err := svc.GetVersionInfo("strutil", "1.0.0")
	require.NoError(t, err)
	assert.True(t, info.Deprecated)

	// Every call emits, including the redundant one.
	assert.Len(t, rec.ofType(events.TypeVersionDeprecated), 2)
}

func TestDeprecateGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)

	err := svc.Deprecate(ctx, alice, "strutil", "9.9.9")
	assert.Equal(t, errors.CodeVersionNotFound, errors.Code(err))

	err = svc.Deprecate(ctx, bob, "strutil", "1.0.0")
	assert.Equal(t, errors.CodeNotOwner, errors.Code(err))
}

func TestSetLicense(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)

	require.NoError(t, svc.SetLicense(ctx, alice, "strutil", amount(100), true))

	info, err := svc.GetLibraryInfo("strutil")
	require.NoError(t, err)
	assert.Equal(t, amount(100), info.LicenseFee)
	assert.True(t, info.LicenseRequired)

	env := rec.last(t)
	assert.Equal(t, events.TypeLicenseConfigSet, env.Type)
	payload := env.Payload.(events.LicenseConfigSet)
	assert.Equal(t, amount(100), payload.Fee)
	assert.True(t, payload.Required)
}

func TestSetLicenseGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	register(t, svc, alice, "secret", true)

	err := svc.SetLicense(ctx, bob, "strutil", amount(100), true)
	assert.Equal(t, errors.CodeNotOwner, errors.Code(err))

	err = svc.SetLicense(ctx, alice, "secret", amount(100), true)
	assert.Equal(t, errors.CodePrivateLicense, errors.Code(err))

	// A private library may carry an inert fee as long as required is false.
	require.NoError(t, svc.SetLicense(ctx, alice, "secret", amount(100), false))

	err = svc.SetLicense(ctx, alice, "strutil", amount(-1), true)
	assert.Equal(t, errors.CodeInvalidArgument, errors.Code(err))
}

func TestPurchaseExactFee(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	require.NoError(t, svc.SetLicense(ctx, alice, "strutil", amount(100), true))
	require.NoError(t, svc.Deposit(ctx, bob, amount(500)))

	require.NoError(t, svc.Purchase(ctx, bob, "strutil", amount(100)))

	owned, err := svc.HasUserLicense("strutil", bob)
	require.NoError(t, err)
	assert.True(t, owned)

	assert.Equal(t, amount(400), svc.Bank().BalanceOf(bob))
	assert.Equal(t, amount(100), svc.Bank().BalanceOf(alice))

	env := rec.last(t)
	assert.Equal(t, events.TypeLicensePurchased, env.Type)
	payload := env.Payload.(events.LicensePurchased)
	assert.Equal(t, bob, payload.Buyer)
	assert.Equal(t, alice, payload.Owner)
	assert.Equal(t, amount(100), payload.Fee)
}

func TestPurchaseRefundsOverpayment(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	require.NoError(t, svc.SetLicense(ctx, alice, "strutil", amount(100), true))
	require.NoError(t, svc.Deposit(ctx, bob, amount(500)))

	require.NoError(t, svc.Purchase(ctx, bob, "strutil", amount(300)))

	// Only the fee actually moves; the overpayment comes straight back.
	assert.Equal(t, amount(400), svc.Bank().BalanceOf(bob))
	assert.Equal(t, amount(100), svc.Bank().BalanceOf(alice))

	payload := rec.last(t).Payload.(events.LicensePurchased)
	assert.Equal(t, amount(100), payload.Fee, "event carries the configured fee, not the payment")
}

func TestPurchaseGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	register(t, svc, alice, "free", false)
	require.NoError(t, svc.SetLicense(ctx, alice, "strutil", amount(100), true))
	require.NoError(t, svc.Deposit(ctx, bob, amount(500)))

	err := svc.Purchase(ctx, bob, "ghost", amount(100))
	assert.Equal(t, errors.CodeNotFound, errors.Code(err))

	err = svc.Purchase(ctx, bob, "free", amount(100))
	assert.Equal(t, errors.CodeLicenseNotRequired, errors.Code(err))

	err = svc.Purchase(ctx, bob, "strutil", amount(99))
	assert.Equal(t, errors.CodeInsufficientPayment, errors.Code(err))

	err = svc.Purchase(ctx, bob, "strutil", amount(-1))
	assert.Equal(t, errors.CodeInvalidArgument, errors.Code(err))

	require.NoError(t, svc.Purchase(ctx, bob, "strutil", amount(100)))
	err = svc.Purchase(ctx, bob, "strutil", amount(100))
	assert.Equal(t, errors.CodeAlreadyOwned, errors.Code(err))
}

func TestPurchaseInsufficientFundsRollsBack(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	require.NoError(t, svc.SetLicense(ctx, alice, "strutil", amount(100), true))
	require.NoError(t, svc.Deposit(ctx, bob, amount(50)))

	err := svc.Purchase(ctx, bob, "strutil", amount(100))
	assert.Equal(t, errors.CodeInsufficientFunds, errors.Code(err))

	// The provisional license entry must not survive the failed withdrawal.
	owned, err := svc.HasUserLicense("strutil", bob)
	require.NoError(t, err)
	assert.False(t, owned)
	assert.Equal(t, amount(50), svc.Bank().BalanceOf(bob))
	assert.Zero(t, svc.Bank().BalanceOf(alice).Sign())
	assert.Empty(t, rec.ofType(events.TypeLicensePurchased))
}

func TestPurchaseZeroFee(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "strutil", false)
	require.NoError(t, svc.SetLicense(ctx, alice, "strutil", amount(0), true))

	// Zero fee, zero payment, no balance needed.
	require.NoError(t, svc.Purchase(ctx, bob, "strutil", amount(0)))

	owned, err := svc.HasUserLicense("strutil", bob)
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestAuthorizeAndRevokeIdempotent(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "secret", true)

	require.NoError(t, svc.Authorize(ctx, alice, "secret", bob))
	require.NoError(t, svc.Authorize(ctx, alice, "secret", bob))
	assert.Len(t, rec.ofType(events.TypeAuthorizationGranted), 2)

	granted, err := svc.HasAccess("secret", bob)
	require.NoError(t, err)
	assert.True(t, granted)

	require.NoError(t, svc.Revoke(ctx, alice, "secret", bob))
	// Revoking an address that was never in the set also succeeds.
	require.NoError(t, svc.Revoke(ctx, alice, "secret", carol))
	assert.Len(t, rec.ofType(events.TypeAuthorizationRevoked), 2)

	granted, err = svc.HasAccess("secret", bob)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestAuthorizeGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "secret", true)
	register(t, svc, alice, "public", false)

	err := svc.Authorize(ctx, bob, "secret", carol)
	assert.Equal(t, errors.CodeNotOwner, errors.Code(err))

	err = svc.Authorize(ctx, alice, "public", bob)
	assert.Equal(t, errors.CodeNotPrivate, errors.Code(err))

	err = svc.Revoke(ctx, alice, "public", bob)
	assert.Equal(t, errors.CodeNotPrivate, errors.Code(err))

	err = svc.Authorize(ctx, alice, "secret", common.Address{})
	assert.Equal(t, errors.CodeInvalidAddress, errors.Code(err))
}

func TestHasAccessMatrix(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, alice, "open", false)
	register(t, svc, alice, "paid", false)
	register(t, svc, alice, "secret", true)
	require.NoError(t, svc.SetLicense(ctx, alice, "paid", amount(10), true))
	require.NoError(t, svc.Deposit(ctx, bob, amount(10)))
	require.NoError(t, svc.Purchase(ctx, bob, "paid", amount(10)))
	require.NoError(t, svc.Authorize(ctx, alice, "secret", carol))

	cases := []struct {
		name    string
		library string
		addr    common.Address
		want    bool
	}{
		{"owner always has access to public", "open", alice, true},
		{"owner always has access to paid", "paid", alice, true},
		{"owner always has access to private", "secret", alice, true},
		{"anyone can access a free public library", "open", bob, true},
		{"license holder can access a paid library", "paid", bob, true},
		{"non-holder cannot access a paid library", "paid", carol, false},
		{"authorized address can access a private library", "secret", carol, true},
		{"unauthorized address cannot access a private library", "secret", bob, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.HasAccess(tc.library, tc.addr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := svc.HasAccess("ghost", bob)
	assert.Equal(t, errors.CodeNotFound, errors.Code(err))
}

func TestPrivateLibraryIgnoresLicenses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, alice, "secret", true)

	// An old license entry must not leak through the private access path;
	// only the authorization set counts.
	granted, err := svc.HasAccess("secret", bob)
	require.NoError(t, err)
	assert.False(t, granted)

	require.NoError(t, svc.Authorize(ctx, alice, "secret", bob))
	granted, err = svc.HasAccess("secret", bob)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestDeposit(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	err := svc.Deposit(ctx, common.Address{}, amount(100))
	assert.Equal(t, errors.CodeInvalidAddress, errors.Code(err))

	require.NoError(t, svc.Deposit(ctx, bob, amount(100)))
	assert.Equal(t, amount(100), svc.Bank().BalanceOf(bob))

	env := rec.last(t)
	assert.Equal(t, events.TypeDepositReceived, env.Type)
	payload := env.Payload.(events.DepositReceived)
	assert.Equal(t, bob, payload.Address)
	assert.Equal(t, amount(100), payload.Amount)
}

func TestGetAllLibraryNames(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, alice, "one", false)
	register(t, svc, alice, "two", false)
	register(t, svc, bob, "three", true)

	assert.ElementsMatch(t, []string{"one", "two", "three"}, svc.GetAllLibraryNames())
}

func TestLoadRestoresStateWithoutEvents(t *testing.T) {
	svc, rec := newTestService(t)

	state := State{
		Libraries: []LibraryInfo{
			{
				Name:            "strutil",
				Owner:           alice,
				LicenseFee:      amount(100),
				LicenseRequired: true,
			},
			{
				Name:       "secret",
				Owner:      alice,
				Private:    true,
				LicenseFee: new(big.Int),
			},
		},
		Versions: []VersionInfo{
			{Name: "strutil", Version: "1.0.0", ContentRef: "ipfs://abc", Publisher: alice},
		},
		Authorizations: map[string][]common.Address{
			"secret": {carol},
		},
		Licenses: map[string][]common.Address{
			"strutil": {bob},
		},
		Balances: map[common.Address]*big.Int{
			bob: amount(42),
		},
	}
	svc.Load(state)

	assert.Empty(t, rec.envelopes, "loading persisted state must not re-emit events")

	info, err := svc.GetLibraryInfo("strutil")
	require.NoError(t, err)
	assert.Equal(t, alice, info.Owner)
	assert.True(t, info.LicenseRequired)
	assert.Equal(t, []string{"1.0.0"}, info.Versions)

	owned, err := svc.HasUserLicense("strutil", bob)
	require.NoError(t, err)
	assert.True(t, owned)

	granted, err := svc.HasAccess("secret", carol)
	require.NoError(t, err)
	assert.True(t, granted)

	assert.Equal(t, amount(42), svc.Bank().BalanceOf(bob))
}
