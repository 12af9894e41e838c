package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/domain"
)

// ManifestData represents the structure of a deployment manifest file.
// Key format: "chain_id" -> list of sources deployed on that chain
type ManifestData map[string][]Source

// ManifestLoader defines the interface for loading static sources from a deployment manifest
//
//go:generate mockgen -source=manifest.go -destination=../mocks/manifest_loader.go -package=mocks -mock_names=ManifestLoader=MockManifestLoader
type ManifestLoader interface {
	// Load returns the sources the manifest lists for chainID
	Load(filePath string, chainID domain.Chain) ([]Source, error)
}

// manifestLoader is the internal implementation of ManifestLoader interface
type manifestLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewManifestLoader creates a new ManifestLoader with injected dependencies
func NewManifestLoader(fs adapter.FileSystem, json adapter.JSON) ManifestLoader {
	return &manifestLoader{
		fs:   fs,
		json: json,
	}
}

// Load returns the sources the manifest lists for chainID
func (l *manifestLoader) Load(filePath string, chainID domain.Chain) ([]Source, error) {
	// Read the file using the file system interface
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest ManifestData
	if err := l.json.UnmarshalStrict(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	var sources []Source
	for chain, entries := range manifest {
		// Chain ids are matched case-insensitively
		if !strings.EqualFold(chain, string(chainID)) {
			continue
		}
		for _, s := range entries {
			if !s.Kind.Valid() {
				return nil, fmt.Errorf("invalid source kind %q in manifest for %s", s.Kind, chain)
			}
			s.Address = domain.NormalizeAddress(s.Address)
			sources = append(sources, s)
		}
	}

	return sources, nil
}

// ResolveSources returns the inline sources followed by the sources the manifest at
// filePath lists for chainID. An empty filePath skips the manifest.
func ResolveSources(loader ManifestLoader, inline []Source, filePath string, chainID domain.Chain) ([]Source, error) {
	sources := slices.Clone(inline)
	if filePath == "" {
		return sources, nil
	}

	fromManifest, err := loader.Load(filePath, chainID)
	if err != nil {
		return nil, err
	}

	return append(sources, fromManifest...), nil
}
