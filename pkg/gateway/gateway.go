// Package gateway exposes the registry's operation surface over HTTP. Every
// public operation of the core maps to one route; mutating routes require a
// verified caller identity, read routes are open.
package gateway

import (
	"time"

	"github.com/libvault/registry/pkg/config"
	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/logging"
	"github.com/libvault/registry/pkg/registry"
	"github.com/libvault/registry/pkg/store"
)

// Version is the reported build version.
const Version = "0.3.0"

// Gateway holds the wired service and serves the HTTP API.
type Gateway struct {
	logger    *logging.ColoredLogger
	cfg       *config.Config
	svc       *registry.Service
	bus       *events.Bus
	audit     *store.SQLiteStore // nil when running without a durable store
	hub       *wsHub
	startedAt time.Time
}

// New creates a gateway around an already-wired registry service. audit may
// be nil when the daemon runs without persistence.
func New(logger *logging.ColoredLogger, cfg *config.Config, svc *registry.Service, bus *events.Bus, audit *store.SQLiteStore) *Gateway {
	g := &Gateway{
		logger:    logger,
		cfg:       cfg,
		svc:       svc,
		bus:       bus,
		audit:     audit,
		startedAt: time.Now(),
	}
	g.hub = newWSHub(logger)
	bus.Subscribe(g.hub.broadcast)
	return g
}

// Close releases gateway resources (websocket subscribers).
func (g *Gateway) Close() {
	g.hub.closeAll()
}
