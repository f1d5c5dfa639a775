package catalog

import (
	"log/slog"
)

type Service struct {
	store  *Store
	dir    string
	logger *slog.Logger
}

func NewService(store *Store, dir string, logger *slog.Logger) *Service {
	logger.Debug("Initializing catalog service")

	return &Service{
		store:  store,
		dir:    dir,
		logger: logger,
	}
}

func (s *Service) Factions() []Faction {
	return s.store.Factions()
}

func (s *Service) Faction(factionID string) (Faction, bool) {
	return s.store.Faction(factionID)
}

func (s *Service) Units(factionID string) ([]UnitDefinition, bool) {
	return s.store.Units(factionID)
}

func (s *Service) Unit(factionID, unitID string) (*UnitDefinition, bool) {
	return s.store.Unit(factionID, unitID)
}

// Reload re-reads the catalog directory and swaps the index wholesale.
func (s *Service) Reload() error {
	logger := s.logger.With("component", "catalog_service", "operation", "reload")
	logger.Info("Reloading faction catalogs")

	if err := s.store.LoadDir(s.dir); err != nil {
		logger.Error("Catalog reload failed", "error", err)
		return err
	}

	logger.Info("Catalog reload complete", "faction_count", len(s.store.Factions()))
	return nil
}
