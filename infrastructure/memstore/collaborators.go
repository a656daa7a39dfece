package memstore

import (
	"context"
	"sync"

	"github.com/ahrav/go-tally/internal/domain"
	"github.com/ahrav/go-tally/internal/ports"
)

// StaticIdentityProvider resolves actors from a fixed map. It stands in
// for the surrounding application's identity system in tests and
// embedded deployments.
type StaticIdentityProvider struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity
}

var _ ports.IdentityProvider = (*StaticIdentityProvider)(nil)

// NewStaticIdentityProvider returns an empty provider.
func NewStaticIdentityProvider() *StaticIdentityProvider {
	return &StaticIdentityProvider{identities: make(map[string]domain.Identity)}
}

// Register adds or replaces an identity.
func (p *StaticIdentityProvider) Register(id domain.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities[id.ID] = id
}

// Resolve implements ports.IdentityProvider.
func (p *StaticIdentityProvider) Resolve(_ context.Context, actorID string) (domain.Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	identity, ok := p.identities[actorID]
	if !ok {
		return domain.Identity{}, &domain.NotFoundError{Entity: "actor", ID: actorID}
	}
	return identity, nil
}

// MemoryAuditSink collects audit entries in memory for inspection.
type MemoryAuditSink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

var _ ports.AuditSink = (*MemoryAuditSink)(nil)

// NewMemoryAuditSink returns an empty sink.
func NewMemoryAuditSink() *MemoryAuditSink {
	return &MemoryAuditSink{}
}

// Record implements ports.AuditSink.
func (s *MemoryAuditSink) Record(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *MemoryAuditSink) Entries() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEntry(nil), s.entries...)
}
