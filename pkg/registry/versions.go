package registry

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/logging"
)

// Publish stores a new immutable version record. The content reference is
// opaque to the registry; dependencies are recorded verbatim.
func (s *Service) Publish(ctx context.Context, caller common.Address, name, version, contentRef string, dependencies []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireOwned(name, caller); err != nil {
		return err
	}
	if _, ok := s.store.version(name, version); ok {
		return errors.VersionExists(name, version)
	}
	if contentRef == "" {
		return errors.EmptyContentRef()
	}

	v := &Version{
		ContentRef:   contentRef,
		Publisher:    caller,
		Timestamp:    time.Now(),
		Dependencies: append([]string(nil), dependencies...),
	}
	s.store.putVersion(name, version, v)

	s.persistErr("publish", s.persist.SaveVersion(ctx, v.info(name, version)))

	s.logger.ComponentInfo(logging.ComponentRegistry, "version published",
		zap.String("name", name),
		zap.String("version", version),
		zap.String("content_ref", contentRef),
	)

	s.bus.Publish(events.TypeVersionPublished, events.VersionPublished{
		Name:       name,
		Version:    version,
		ContentRef: contentRef,
		Publisher:  caller,
	})
	return nil
}

// Deprecate marks a version as superseded. Idempotent: deprecating an
// already deprecated version succeeds and still emits the notification.
func (s *Service) Deprecate(ctx context.Context, caller common.Address, name, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireOwned(name, caller); err != nil {
		return err
	}
	v, ok := s.store.version(name, version)
	if !ok {
		return errors.VersionNotFound(name, version)
	}

	v.Deprecated = true

	s.persistErr("deprecate", s.persist.SaveVersion(ctx, v.info(name, version)))

	s.bus.Publish(events.TypeVersionDeprecated, events.VersionDeprecated{
		Name:    name,
		Version: version,
	})
	return nil
}
