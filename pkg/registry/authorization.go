package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/events"
)

// Authorize grants an address explicit access to a private library.
// Idempotent: re-granting succeeds and still emits the notification.
func (s *Service) Authorize(ctx context.Context, caller common.Address, name string, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.requireOwned(name, caller)
	if err != nil {
		return err
	}
	if !lib.Private {
		return errors.NotPrivate(name)
	}
	if addr == (common.Address{}) {
		return errors.InvalidAddress()
	}

	s.store.setAuthorized(name, addr, true)

	s.persistErr("authorize", s.persist.SetAuthorization(ctx, name, addr, true))

	s.bus.Publish(events.TypeAuthorizationGranted, events.AuthorizationGranted{
		Name:    name,
		Address: addr,
	})
	return nil
}

// Revoke removes an address from the authorization set. Idempotent:
// revoking a non-member succeeds and still emits the notification.
func (s *Service) Revoke(ctx context.Context, caller common.Address, name string, addr common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, err := s.requireOwned(name, caller)
	if err != nil {
		return err
	}
	if !lib.Private {
		return errors.NotPrivate(name)
	}

	s.store.setAuthorized(name, addr, false)

	s.persistErr("revoke", s.persist.SetAuthorization(ctx, name, addr, false))

	s.bus.Publish(events.TypeAuthorizationRevoked, events.AuthorizationRevoked{
		Name:    name,
		Address: addr,
	})
	return nil
}
