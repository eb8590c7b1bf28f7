package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/logging"
)

// SetLicense updates the fee and required flag for a library. A private
// library can never require a license (its access model is the
// authorization set), though storing an inert fee is allowed.
func (s *Service) SetLicense(ctx context.Context, caller common.Address, name string, fee *big.Int, required bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.requireOwned(name, caller)
	if err != nil {
		return err
	}
	if lib.Private && required {
		return errors.PrivateLicense(name)
	}
	if fee == nil {
		fee = new(big.Int)
	}
	if fee.Sign() < 0 {
		return errors.New(errors.CodeInvalidArgument, "license fee cannot be negative")
	}

	lib.LicenseFee = new(big.Int).Set(fee)
	lib.LicenseRequired = required

	s.persistErr("set_license", s.persist.SaveLibrary(ctx, lib.info(name)))

	s.logger.ComponentInfo(logging.ComponentRegistry, "license config set",
		zap.String("name", name),
		zap.String("fee", fee.String()),
		zap.Bool("required", required),
	)

	s.bus.Publish(events.TypeLicenseConfigSet, events.LicenseConfigSet{
		Name:     name,
		Fee:      new(big.Int).Set(fee),
		Required: required,
	})
	return nil
}

// Purchase buys a license for the caller. The declared payment must cover
// the configured fee; the fee goes to the owner and any excess returns to
// the buyer.
//
// Effects before interactions: the license entry is committed before any
// value moves, so a re-entrant call made during the transfers observes
// ALREADY_OWNED instead of double-purchasing. If the buyer's funds cannot
// cover the payment the entry is rolled back and nothing persists.
func (s *Service) Purchase(ctx context.Context, buyer common.Address, name string, payment *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.requireLibrary(name)
	if err != nil {
		return err
	}
	if !lib.LicenseRequired {
		return errors.LicenseNotRequired(name)
	}
	if s.store.hasLicense(name, buyer) {
		return errors.AlreadyOwned(name)
	}
	if payment == nil {
		payment = new(big.Int)
	}
	if payment.Sign() < 0 {
		return errors.New(errors.CodeInvalidArgument, "payment cannot be negative")
	}
	if payment.Cmp(lib.LicenseFee) < 0 {
		return errors.InsufficientPayment(name)
	}

	// Bookkeeping first.
	s.store.setLicense(name, buyer, true)

	// Escrow the full payment, then settle: fee to the owner, excess back
	// to the buyer. Deposits cannot fail; only the withdrawal can, and on
	// failure the license entry is rolled back so the operation leaves no
	// trace.
	if err := s.bank.Withdraw(buyer, payment); err != nil {
		s.store.setLicense(name, buyer, false)
		return err
	}
	fee := new(big.Int).Set(lib.LicenseFee)
	_ = s.bank.Deposit(lib.Owner, fee)
	if excess := new(big.Int).Sub(payment, fee); excess.Sign() > 0 {
		_ = s.bank.Deposit(buyer, excess)
	}

	s.persistErr("purchase", s.persist.SetLicense(ctx, name, buyer))
	s.persistErr("purchase", s.persist.SaveBalance(ctx, buyer, s.bank.BalanceOf(buyer)))
	s.persistErr("purchase", s.persist.SaveBalance(ctx, lib.Owner, s.bank.BalanceOf(lib.Owner)))

	s.logger.ComponentInfo(logging.ComponentLedger, "license purchased",
		zap.String("name", name),
		zap.String("buyer", buyer.Hex()),
		zap.String("fee", fee.String()),
	)

	s.bus.Publish(events.TypeLicensePurchased, events.LicensePurchased{
		Name:  name,
		Buyer: buyer,
		Owner: lib.Owner,
		Fee:   fee,
	})
	return nil
}

// HasUserLicense is a direct read of the license ledger, independent of the
// access decision.
func (s *Service) HasUserLicense(name string, addr common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.requireLibrary(name); err != nil {
		return false, err
	}
	return s.store.hasLicense(name, addr), nil
}
