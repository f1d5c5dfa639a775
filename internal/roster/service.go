package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rygonet-server/internal/shared/errors"

	"github.com/google/uuid"
)

// Store is the persistence boundary for roster documents. Every change is
// written back wholesale; there is no delta persistence.
type Store interface {
	Create(ctx context.Context, r *Roster) error
	Get(ctx context.Context, rosterID string) (*Roster, error)
	ListByUser(ctx context.Context, userID int) ([]Roster, error)
	Update(ctx context.Context, r *Roster) error
	Delete(ctx context.Context, rosterID string) error
}

// Service owns the roster lifecycle and is the only writer of roster
// state. Rosters move between owned+editing, owned+locked and
// shared+locked; shared+editing is unreachable because a shared roster
// must be cloned into an owned one before full editing.
//
// Mutation gating: everything except toggling a group's collapsed flag and
// relationship-only entry updates requires edit mode. The relationship
// exception supports play mode, where embark/desant/tow status changes
// mid-game without unlocking the roster.
type Service struct {
	store  Store
	units  UnitSource
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(store Store, units UnitSource, logger *slog.Logger) *Service {
	logger.Debug("Initializing roster service")

	return &Service{
		store:  store,
		units:  units,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, userID int, name, factionID string, pointsLimit int) (*Roster, error) {
	logger := s.logger.With("component", "roster_service", "operation", "create", "user_id", userID, "faction_id", factionID)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("roster name is required")
	}
	if factionID == "" {
		return nil, errors.Validation("faction is required")
	}
	if pointsLimit <= 0 {
		return nil, errors.Validation("points limit must be positive")
	}

	now := s.now()
	r := &Roster{
		ID:          s.newID(),
		UserID:      userID,
		Name:        name,
		FactionID:   factionID,
		PointsLimit: pointsLimit,
		Entries:     []Entry{},
		Groups:      []Group{},
		Shared:      false,
		EditMode:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, r); err != nil {
		logger.Error("Failed to create roster", "error", err)
		return nil, fmt.Errorf("failed to create roster: %w", err)
	}

	logger.Info("Roster created", "roster_id", r.ID)
	return r, nil
}

func (s *Service) Get(ctx context.Context, userID int, rosterID string) (*Roster, error) {
	r, err := s.store.Get(ctx, rosterID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, errors.NotFoundf("roster not found with id: %s", rosterID)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]Roster, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID int, rosterID string) error {
	if _, err := s.Get(ctx, userID, rosterID); err != nil {
		return err
	}
	return s.store.Delete(ctx, rosterID)
}

// EnterEdit unlocks an owned roster for editing. Shared rosters stay
// locked; they have to be cloned first.
func (s *Service) EnterEdit(ctx context.Context, userID int, rosterID string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if r.Shared {
		return nil, errors.Forbidden("shared rosters cannot be edited; clone it first")
	}
	if r.EditMode {
		return r, nil
	}

	r.EditMode = true
	r.UpdatedAt = s.now()
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to unlock roster: %w", err)
	}
	return r, nil
}

// Save locks the roster and persists it as the stored copy of record.
func (s *Service) Save(ctx context.Context, userID int, rosterID string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}

	r.EditMode = false
	r.UpdatedAt = s.now()
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}

	s.logger.Info("Roster saved", "component", "roster_service", "roster_id", r.ID, "user_id", userID)
	return r, nil
}

// Clone materializes an owned, locked copy of a roster document with fresh
// identity throughout: new roster id, new entry and group ids, timestamps
// reset, and relationship carriers and group references remapped onto the
// new ids. Used to adopt a shared import; the copy is fully decoupled from
// the original.
func (s *Service) Clone(ctx context.Context, userID int, source *Roster) (*Roster, error) {
	logger := s.logger.With("component", "roster_service", "operation", "clone", "user_id", userID)

	source.Normalize()

	now := s.now()
	clone := &Roster{
		ID:          s.newID(),
		UserID:      userID,
		Name:        source.Name,
		FactionID:   source.FactionID,
		PointsLimit: source.PointsLimit,
		Entries:     make([]Entry, len(source.Entries)),
		Groups:      make([]Group, len(source.Groups)),
		Shared:      false,
		EditMode:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	groupIDs := make(map[string]string, len(source.Groups))
	for i, g := range source.Groups {
		id := s.newID()
		groupIDs[g.ID] = id
		clone.Groups[i] = Group{ID: id, Name: g.Name, Collapsed: g.Collapsed}
	}

	entryIDs := make(map[string]string, len(source.Entries))
	for i, e := range source.Entries {
		id := s.newID()
		entryIDs[e.ID] = id
		copied := e
		copied.ID = id
		copied.Options = append([]int(nil), e.Options...)
		copied.GroupID = groupIDs[e.GroupID]
		copied.Relationship = nil
		clone.Entries[i] = copied
	}

	// Second pass: carriers may reference entries later in the list.
	for i, e := range source.Entries {
		if e.Relationship == nil {
			continue
		}
		carrier, ok := entryIDs[e.Relationship.Carrier]
		if !ok {
			continue
		}
		clone.Entries[i].Relationship = &Relationship{Kind: e.Relationship.Kind, Carrier: carrier}
	}

	if err := s.store.Create(ctx, clone); err != nil {
		logger.Error("Failed to persist cloned roster", "error", err)
		return nil, fmt.Errorf("failed to clone roster: %w", err)
	}

	logger.Info("Roster cloned", "roster_id", clone.ID)
	return clone, nil
}

// UpdateMeta renames the roster or changes its points limit. Edit mode
// required.
func (s *Service) UpdateMeta(ctx context.Context, userID int, rosterID string, name *string, pointsLimit *int) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if !r.EditMode {
		return nil, errors.Forbidden("roster is locked")
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, errors.Validation("roster name is required")
		}
		r.Name = trimmed
	}
	if pointsLimit != nil {
		if *pointsLimit <= 0 {
			return nil, errors.Validation("points limit must be positive")
		}
		r.PointsLimit = *pointsLimit
	}

	return s.commit(ctx, r)
}

func (s *Service) AddEntry(ctx context.Context, userID int, rosterID, unitID string, count int) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if !r.EditMode {
		return nil, errors.Forbidden("roster is locked")
	}
	if unitID == "" {
		return nil, errors.Validation("unit id is required")
	}
	if count < 1 {
		count = 1
	}

	r.Entries = append(r.Entries, Entry{
		ID:     s.newID(),
		UnitID: unitID,
		Count:  count,
	})

	return s.commit(ctx, r)
}

// EntryPatch is a partial entry update. Nil fields are untouched. A patch
// that touches only Relationship is permitted on a locked roster; anything
// else needs edit mode.
type EntryPatch struct {
	Count        *int
	CustomName   *string
	Options      *[]int
	GroupID      *string
	Relationship *RelationshipPatch
}

// RelationshipPatch sets or clears an entry's relationship.
type RelationshipPatch struct {
	Clear   bool
	Kind    RelationKind
	Carrier string
}

func (p EntryPatch) relationshipOnly() bool {
	return p.Relationship != nil &&
		p.Count == nil && p.CustomName == nil && p.Options == nil && p.GroupID == nil
}

func (p EntryPatch) empty() bool {
	return p.Relationship == nil &&
		p.Count == nil && p.CustomName == nil && p.Options == nil && p.GroupID == nil
}

func (s *Service) UpdateEntry(ctx context.Context, userID int, rosterID, entryID string, patch EntryPatch) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if patch.empty() {
		return r, nil
	}

	// Relationship-only updates are the play-mode exception to edit
	// gating; everything else needs the roster unlocked.
	if !r.EditMode && !patch.relationshipOnly() {
		return nil, errors.Forbidden("roster is locked")
	}

	entry := r.EntryByID(entryID)
	if entry == nil {
		return nil, errors.NotFoundf("entry not found with id: %s", entryID)
	}

	if patch.Count != nil {
		if *patch.Count < 1 {
			return nil, errors.Validation("count must be at least 1")
		}
		entry.Count = *patch.Count
	}
	if patch.CustomName != nil {
		entry.CustomName = strings.TrimSpace(*patch.CustomName)
	}
	if patch.Options != nil {
		entry.Options = append([]int(nil), (*patch.Options)...)
	}
	if patch.GroupID != nil {
		entry.GroupID = *patch.GroupID
	}
	if patch.Relationship != nil {
		if patch.Relationship.Clear {
			if err := r.ClearRelationship(entryID); err != nil {
				return nil, errors.WrapValidation("cannot clear relationship", err)
			}
		} else {
			if err := r.SetRelationship(entryID, patch.Relationship.Kind, patch.Relationship.Carrier); err != nil {
				return nil, errors.WrapValidation("cannot set relationship", err)
			}
		}
	}

	return s.commit(ctx, r)
}

func (s *Service) RemoveEntry(ctx context.Context, userID int, rosterID, entryID string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if !r.EditMode {
		return nil, errors.Forbidden("roster is locked")
	}

	if !r.RemoveEntry(entryID) {
		return nil, errors.NotFoundf("entry not found with id: %s", entryID)
	}

	return s.commit(ctx, r)
}

func (s *Service) AddGroup(ctx context.Context, userID int, rosterID, name string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if !r.EditMode {
		return nil, errors.Forbidden("roster is locked")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("group name is required")
	}

	r.Groups = append(r.Groups, Group{ID: s.newID(), Name: name})
	return s.commit(ctx, r)
}

func (s *Service) RenameGroup(ctx context.Context, userID int, rosterID, groupID, name string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if !r.EditMode {
		return nil, errors.Forbidden("roster is locked")
	}

	group := r.GroupByID(groupID)
	if group == nil {
		return nil, errors.NotFoundf("group not found with id: %s", groupID)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("group name is required")
	}

	group.Name = name
	return s.commit(ctx, r)
}

// RemoveGroup deletes a group and ungroups its entries. The entries
// themselves are untouched.
func (s *Service) RemoveGroup(ctx context.Context, userID int, rosterID, groupID string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if !r.EditMode {
		return nil, errors.Forbidden("roster is locked")
	}

	index := -1
	for i := range r.Groups {
		if r.Groups[i].ID == groupID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, errors.NotFoundf("group not found with id: %s", groupID)
	}

	r.Groups = append(r.Groups[:index], r.Groups[index+1:]...)
	for i := range r.Entries {
		if r.Entries[i].GroupID == groupID {
			r.Entries[i].GroupID = ""
		}
	}

	return s.commit(ctx, r)
}

// ToggleGroupCollapsed flips a group's collapsed flag. Allowed while
// locked: collapsing is a display preference, not an edit.
func (s *Service) ToggleGroupCollapsed(ctx context.Context, userID int, rosterID, groupID string) (*Roster, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}

	group := r.GroupByID(groupID)
	if group == nil {
		return nil, errors.NotFoundf("group not found with id: %s", groupID)
	}

	group.Collapsed = !group.Collapsed
	return s.commit(ctx, r)
}

// Validate derives the diagnostic view for a stored roster.
func (s *Service) Validate(ctx context.Context, userID int, rosterID string) (*Validation, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	v := Validate(r, s.units)
	return &v, nil
}

// Candidates lists plausible carriers for one entry.
func (s *Service) Candidates(ctx context.Context, userID int, rosterID, entryID string) ([]CarrierOption, error) {
	r, err := s.Get(ctx, userID, rosterID)
	if err != nil {
		return nil, err
	}
	if r.EntryByID(entryID) == nil {
		return nil, errors.NotFoundf("entry not found with id: %s", entryID)
	}
	return CarrierCandidates(r, entryID, s.units), nil
}

// commit stamps the modification time and rewrites the stored document.
func (s *Service) commit(ctx context.Context, r *Roster) (*Roster, error) {
	r.UpdatedAt = s.now()
	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to persist roster: %w", err)
	}
	return r, nil
}
