// Package registry implements the library registry state machine: the
// entity model, the owner-only mutation guard, the access decision logic,
// and the atomic license purchase flow.
package registry

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/ledger"
	"github.com/libvault/registry/pkg/logging"
)

// Service executes registry operations against a single shared store.
// One mutex serializes every mutating operation in full, so no caller can
// observe a partially applied effect of another; atomicity concerns are
// confined to the effect ordering inside each operation.
type Service struct {
	mu      sync.RWMutex
	store   *Store
	bank    *ledger.Ledger
	bus     *events.Bus
	persist Persister
	logger  *logging.ColoredLogger
}

// NewService wires the registry core. persist may be nil, in which case
// state lives only in memory.
func NewService(bank *ledger.Ledger, bus *events.Bus, persist Persister, logger *logging.ColoredLogger) *Service {
	if persist == nil {
		persist = NopPersister{}
	}
	return &Service{
		store:   NewStore(),
		bank:    bank,
		bus:     bus,
		persist: persist,
		logger:  logger,
	}
}

// Bank returns the value ledger backing license purchases.
func (s *Service) Bank() *ledger.Ledger {
	return s.bank
}

// requireLibrary returns the record or NotFound. Callers hold the lock.
func (s *Service) requireLibrary(name string) (*Library, error) {
	lib, ok := s.store.library(name)
	if !ok {
		return nil, errors.NotFound(name)
	}
	return lib, nil
}

// requireOwned is the owner-only mutation guard shared by every manager:
// the library must exist and the caller must be its owner.
func (s *Service) requireOwned(name string, caller common.Address) (*Library, error) {
	lib, err := s.requireLibrary(name)
	if err != nil {
		return nil, err
	}
	if lib.Owner != caller {
		return nil, errors.NotOwner(name)
	}
	return lib, nil
}

func (s *Service) persistErr(op string, err error) {
	if err != nil && s.logger != nil {
		s.logger.ComponentError(logging.ComponentRegistry, "durable store write failed",
			zap.String("op", op), zap.Error(err))
	}
}

// GetLibraryInfo returns the full library record as a single read.
func (s *Service) GetLibraryInfo(name string) (LibraryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lib, err := s.requireLibrary(name)
	if err != nil {
		return LibraryInfo{}, err
	}
	return lib.info(name), nil
}

// GetVersionInfo returns one version record.
func (s *Service) GetVersionInfo(name, version string) (VersionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.requireLibrary(name); err != nil {
		return VersionInfo{}, err
	}
	v, ok := s.store.version(name, version)
	if !ok {
		return VersionInfo{}, errors.VersionNotFound(name, version)
	}
	return v.info(name, version), nil
}

// GetVersionNumbers returns the version identifiers in publish order.
func (s *Service) GetVersionNumbers(name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lib, err := s.requireLibrary(name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), lib.Versions...), nil
}

// GetAllLibraryNames returns every registered name. Order is unspecified.
func (s *Service) GetAllLibraryNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.allNames()
}

// Deposit credits funds to an account and emits DepositReceived. This is
// how value enters the system; purchases then move it between accounts.
func (s *Service) Deposit(ctx context.Context, addr common.Address, amount *big.Int) error {
	if addr == (common.Address{}) {
		return errors.InvalidAddress()
	}
	if err := s.bank.Deposit(addr, amount); err != nil {
		return err
	}
	s.persistErr("deposit", s.persist.SaveBalance(ctx, addr, s.bank.BalanceOf(addr)))
	s.bus.Publish(events.TypeDepositReceived, events.DepositReceived{
		Address: addr,
		Amount:  new(big.Int).Set(amount),
	})
	return nil
}
