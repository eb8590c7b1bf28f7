package registry

import (
	"github.com/ethereum/go-ethereum/common"
)

// HasAccess is the pure access decision for (library, address):
//
//  1. The owner always has access.
//  2. A private library grants access iff the address is in its
//     authorization set; the license ledger is never consulted.
//  3. A public library grants access to everyone unless a license is
//     required, in which case only holders of a purchased license qualify.
func (s *Service) HasAccess(name string, addr common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lib, err := s.requireLibrary(name)
	if err != nil {
		return false, err
	}

	if addr == lib.Owner {
		return true, nil
	}
	if lib.Private {
		return s.store.isAuthorized(name, addr), nil
	}
	if !lib.LicenseRequired {
		return true, nil
	}
	return s.store.hasLicense(name, addr), nil
}
