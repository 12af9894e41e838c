package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// SourceKind identifies which contract template an address was deployed from
type SourceKind string

const (
	// SourceKindBigBang is the workspace factory
	SourceKindBigBang SourceKind = "BigBang"
	// SourceKindFractionToken is the shared role-share token
	SourceKindFractionToken SourceKind = "FractionToken"
	// SourceKindThanksToken is a fungible ThanksToken contract
	SourceKindThanksToken SourceKind = "ThanksToken"
	// SourceKindHatsTimeFrameModule is a per-workspace time frame module
	SourceKindHatsTimeFrameModule SourceKind = "HatsTimeFrameModule"
	// SourceKindHatsHatCreatorModule is a per-workspace hat creator module
	SourceKindHatsHatCreatorModule SourceKind = "HatsHatCreatorModule"
)

// Valid reports whether k is a known source kind
func (k SourceKind) Valid() bool {
	switch k {
	case SourceKindBigBang,
		SourceKindFractionToken,
		SourceKindThanksToken,
		SourceKindHatsTimeFrameModule,
		SourceKindHatsHatCreatorModule:
		return true
	}
	return false
}

// IsModule reports whether k is a per-workspace module template
func (k SourceKind) IsModule() bool {
	return k == SourceKindHatsTimeFrameModule || k == SourceKindHatsHatCreatorModule
}

// SourceKindForModule maps a registered module kind to its source kind
func SourceKindForModule(kind schema.ModuleKind) (SourceKind, bool) {
	switch kind {
	case schema.ModuleKindHatsTimeFrameModule:
		return SourceKindHatsTimeFrameModule, true
	case schema.ModuleKindHatsHatCreatorModule:
		return SourceKindHatsHatCreatorModule, true
	}
	return "", false
}

// Source is a contract address the indexer listens to
type Source struct {
	Kind       SourceKind `json:"kind" mapstructure:"kind"`
	Address    string     `json:"address" mapstructure:"address"`
	StartBlock uint64     `json:"start_block" mapstructure:"start_block"`
}

// ModuleLister lists the module registrations persisted by earlier runs
type ModuleLister interface {
	ListModuleRegistrations(ctx context.Context) ([]*schema.ModuleRegistration, error)
}

// Registry maps contract addresses to their source kind.
// It holds the configured static sources and every module created at runtime.
//
//go:generate mockgen -source=registry.go -destination=../mocks/registry.go -package=mocks -mock_names=Registry=MockRegistry
type Registry interface {
	// Lookup returns the source kind of address
	Lookup(address string) (SourceKind, bool)

	// Track registers a module address created at runtime
	Track(address string, kind SourceKind)

	// Load registers every module address persisted in the store
	Load(ctx context.Context, lister ModuleLister) error

	// Sources returns every known source ordered by address
	Sources() []Source

	// StartBlock returns the lowest start block of the static sources
	StartBlock() uint64
}

type registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// New creates a registry seeded with static sources
func New(sources []Source) (Registry, error) {
	r := &registry{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("invalid source kind %q for %s", s.Kind, s.Address)
		}
		if !common.IsHexAddress(s.Address) {
			return nil, fmt.Errorf("invalid source address %q", s.Address)
		}
		s.Address = domain.NormalizeAddress(s.Address)
		if existing, ok := r.sources[s.Address]; ok && existing.Kind != s.Kind {
			return nil, fmt.Errorf("source %s registered as both %s and %s", s.Address, existing.Kind, s.Kind)
		}
		r.sources[s.Address] = s
	}
	return r, nil
}

// Lookup returns the source kind of address
func (r *registry) Lookup(address string) (SourceKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[domain.NormalizeAddress(address)]
	return s.Kind, ok
}

// Track registers a module address created at runtime.
// A static source always wins over a tracked one.
func (r *registry) Track(address string, kind SourceKind) {
	address = domain.NormalizeAddress(address)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sources[address]; ok {
		return
	}
	r.sources[address] = Source{Kind: kind, Address: address}
}

// Load registers every module address persisted in the store
func (r *registry) Load(ctx context.Context, lister ModuleLister) error {
	registrations, err := lister.ListModuleRegistrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list module registrations: %w", err)
	}

	for _, reg := range registrations {
		kind, ok := SourceKindForModule(reg.Kind)
		if !ok {
			return fmt.Errorf("unknown module kind %q for %s", reg.Kind, reg.ID)
		}
		r.Track(reg.ID, kind)
	}
	return nil
}

// Sources returns every known source ordered by address
func (r *registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		sources = append(sources, s)
	}
	slices.SortFunc(sources, func(a, b Source) int {
		return strings.Compare(a.Address, b.Address)
	})
	return sources
}

// StartBlock returns the lowest start block of the static sources, or 0 when none set one
func (r *registry) StartBlock() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var start uint64
	for _, s := range r.sources {
		if s.StartBlock == 0 {
			continue
		}
		if start == 0 || s.StartBlock < start {
			start = s.StartBlock
		}
	}
	return start
}
