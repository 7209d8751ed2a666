package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kmaier/prephoops/internal/game"
)

// Storage handles persistence of game snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// getSnapshotPath returns the path to a source's snapshot file
func (s *Storage) getSnapshotPath(source string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", strings.ToLower(source)))
}

// LoadSnapshot loads a source's snapshot from disk. A missing file yields an
// empty snapshot, not an error: first runs have nothing to diff against.
func (s *Storage) LoadSnapshot(source string) (*game.Snapshot, error) {
	path := s.getSnapshotPath(source)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return game.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot game.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	// Ensure Games map is initialized
	if snapshot.Games == nil {
		snapshot.Games = make(map[string]*game.Game)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a source's snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *game.Snapshot, source string) error {
	path := s.getSnapshotPath(source)

	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromGames creates and saves a snapshot from a list of games
func (s *Storage) CreateSnapshotFromGames(games []*game.Game, source string) error {
	snapshot := game.CreateSnapshot(games, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, source)
}
