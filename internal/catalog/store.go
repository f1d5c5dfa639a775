package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store holds the loaded faction catalogs. Units are immutable once loaded;
// Reload swaps the whole index atomically so readers never see a partial
// catalog.
type Store struct {
	mu       sync.RWMutex
	factions map[string]*factionEntry
	order    []string
}

type factionEntry struct {
	faction Faction
	units   []UnitDefinition
	byID    map[string]*UnitDefinition
}

func NewStore() *Store {
	return &Store{factions: make(map[string]*factionEntry)}
}

// LoadDir reads every *.json faction file under dir and replaces the
// current index. A malformed file fails the whole load so a bad deploy
// cannot leave a half-usable catalog.
func (s *Store) LoadDir(dir string) error {
	logger := slog.With("component", "catalog_store", "operation", "load_dir", "dir", dir)
	logger.Info("Loading faction catalogs")

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error("Failed to read catalog directory", "error", err)
		return fmt.Errorf("failed to read catalog directory %s: %w", dir, err)
	}

	factions := make(map[string]*factionEntry)
	var order []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		file, err := loadFactionFile(path)
		if err != nil {
			logger.Error("Failed to load faction file", "file", entry.Name(), "error", err)
			return err
		}

		fe := &factionEntry{
			faction: file.Faction,
			units:   file.Units,
			byID:    make(map[string]*UnitDefinition, len(file.Units)),
		}
		for i := range fe.units {
			fe.byID[fe.units[i].ID] = &fe.units[i]
		}

		factions[file.Faction.ID] = fe
		order = append(order, file.Faction.ID)

		logger.Debug("Loaded faction catalog",
			"faction_id", file.Faction.ID,
			"faction_name", file.Faction.Name,
			"unit_count", len(file.Units),
		)
	}

	sort.Strings(order)

	s.mu.Lock()
	s.factions = factions
	s.order = order
	s.mu.Unlock()

	logger.Info("Faction catalogs loaded", "faction_count", len(factions))
	return nil
}

func loadFactionFile(path string) (*FactionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file FactionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if file.Faction.ID == "" {
		return nil, fmt.Errorf("faction file %s has no faction id", path)
	}

	return &file, nil
}

// Factions lists the loaded factions in id order.
func (s *Store) Factions() []Faction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	factions := make([]Faction, 0, len(s.order))
	for _, id := range s.order {
		factions = append(factions, s.factions[id].faction)
	}
	return factions
}

// Faction resolves a faction by id.
func (s *Store) Faction(factionID string) (Faction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fe, ok := s.factions[factionID]
	if !ok {
		return Faction{}, false
	}
	return fe.faction, true
}

// Units returns the unit definitions of a faction in catalog order.
func (s *Store) Units(factionID string) ([]UnitDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fe, ok := s.factions[factionID]
	if !ok {
		return nil, false
	}
	return fe.units, true
}

// Unit resolves one unit definition. Before the catalog is loaded, or for
// any unknown id, the answer is simply not-found; roster computations are
// specified to degrade on that answer rather than fail.
func (s *Store) Unit(factionID, unitID string) (*UnitDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fe, ok := s.factions[factionID]
	if !ok {
		return nil, false
	}
	unit, ok := fe.byID[unitID]
	return unit, ok
}
