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

// Register creates a new library record owned by the caller. The name must
// be globally unique among live records; a name freed by deletion may be
// registered again.
func (s *Service) Register(ctx context.Context, caller common.Address, params RegisterParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.library(params.Name); ok {
		return errors.NameConflict(params.Name)
	}

	lib := &Library{
		Owner:           caller,
		Description:     params.Description,
		Tags:            append([]string(nil), params.Tags...),
		Language:        params.Language,
		Private:         params.Private,
		LicenseFee:      new(big.Int),
		LicenseRequired: false,
	}
	s.store.putLibrary(params.Name, lib)

	s.persistErr("register", s.persist.SaveLibrary(ctx, lib.info(params.Name)))

	s.logger.ComponentInfo(logging.ComponentRegistry, "library registered",
		zap.String("name", params.Name),
		zap.String("owner", caller.Hex()),
		zap.Bool("private", params.Private),
	)

	s.bus.Publish(events.TypeLibraryRegistered, events.LibraryRegistered{
		Name:     params.Name,
		Owner:    caller,
		Private:  params.Private,
		Language: params.Language,
	})
	return nil
}

// Delete removes a library record. Only the owner may delete, and only
// while no versions have been published.
func (s *Service) Delete(ctx context.Context, caller common.Address, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.requireOwned(name, caller)
	if err != nil {
		return err
	}
	if len(lib.Versions) > 0 {
		return errors.HasVersions(name)
	}

	s.store.removeLibrary(name)

	s.persistErr("delete", s.persist.DeleteLibrary(ctx, name))

	s.logger.ComponentInfo(logging.ComponentRegistry, "library deleted",
		zap.String("name", name))

	s.bus.Publish(events.TypeLibraryDeleted, events.LibraryDeleted{Name: name})
	return nil
}
