package registry

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/logging"
)

// State is a full snapshot of registry and ledger state, as loaded from
// the durable store at startup.
type State struct {
	Libraries      []LibraryInfo
	Versions       []VersionInfo
	Authorizations map[string][]common.Address
	Licenses       map[string][]common.Address
	Balances       map[common.Address]*big.Int
}

// Load seeds the service from a snapshot. No notifications are emitted;
// the events were already observed when the mutations first committed.
// Must be called before the service starts taking operations.
func (s *Service) Load(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, info := range state.Libraries {
		lib := &Library{
			Owner:           info.Owner,
			Description:     info.Description,
			Tags:            append([]string(nil), info.Tags...),
			Language:        info.Language,
			Private:         info.Private,
			LicenseFee:      new(big.Int).Set(info.LicenseFee),
			LicenseRequired: info.LicenseRequired,
		}
		s.store.putLibrary(info.Name, lib)
	}
	// Version rows carry publish order via their insertion sequence.
	for _, v := range state.Versions {
		if _, ok := s.store.library(v.Name); !ok {
			continue
		}
		s.store.putVersion(v.Name, v.Version, &Version{
			ContentRef:   v.ContentRef,
			Publisher:    v.Publisher,
			Timestamp:    v.Timestamp,
			Dependencies: append([]string(nil), v.Dependencies...),
			Deprecated:   v.Deprecated,
		})
	}
	for name, addrs := range state.Authorizations {
		for _, addr := range addrs {
			s.store.setAuthorized(name, addr, true)
		}
	}
	for name, addrs := range state.Licenses {
		for _, addr := range addrs {
			s.store.setLicense(name, addr, true)
		}
	}
	for addr, balance := range state.Balances {
		s.bank.SetBalance(addr, balance)
	}

	if s.logger != nil {
		s.logger.ComponentInfo(logging.ComponentRegistry, "state loaded",
			zap.Int("libraries", len(state.Libraries)),
			zap.Int("versions", len(state.Versions)),
			zap.Int("accounts", len(state.Balances)),
		)
	}
}
