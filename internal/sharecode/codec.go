package sharecode

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"rygonet-server/internal/roster"

	"github.com/google/uuid"
)

// The share token is a minimal roster serialization, deflated and
// base64url-encoded so it survives inside a URL fragment. Entry identity
// is not preserved across the boundary: relationship carriers are
// rewritten from entry ids to positions in the entry list before encoding
// and resolved back onto freshly generated ids after decoding.

// maxDecodedSize bounds decompression of untrusted tokens.
const maxDecodedSize = 1 << 20

type sharedRoster struct {
	Name    string        `json:"n"`
	Faction string        `json:"f"`
	Limit   int           `json:"p"`
	Entries []sharedEntry `json:"e"`
	Groups  []sharedGroup `json:"g,omitempty"`
}

type sharedEntry struct {
	Unit    string     `json:"u"`
	Count   int        `json:"c,omitempty"`
	Name    string     `json:"n,omitempty"`
	Options []int      `json:"o,omitempty"`
	Group   string     `json:"g,omitempty"`
	Rel     *sharedRel `json:"r,omitempty"`
}

type sharedRel struct {
	Kind string `json:"k"`
	// Carrier is a positional index into the entry list. Older tokens
	// stored the raw entry id instead; those decode but cannot re-resolve.
	Carrier json.RawMessage `json:"c"`
}

type sharedGroup struct {
	ID   string `json:"i"`
	Name string `json:"n"`
}

// Encode reduces a roster to its minimal shared form and packs it into a
// URL-safe token.
func Encode(r *roster.Roster) (string, error) {
	position := make(map[string]int, len(r.Entries))
	for i := range r.Entries {
		position[r.Entries[i].ID] = i
	}

	shared := sharedRoster{
		Name:    r.Name,
		Faction: r.FactionID,
		Limit:   r.PointsLimit,
		Entries: make([]sharedEntry, 0, len(r.Entries)),
	}

	for _, g := range r.Groups {
		shared.Groups = append(shared.Groups, sharedGroup{ID: g.ID, Name: g.Name})
	}

	for i := range r.Entries {
		e := &r.Entries[i]
		se := sharedEntry{
			Unit:    e.UnitID,
			Count:   e.Count,
			Name:    e.CustomName,
			Options: e.Options,
			Group:   e.GroupID,
		}
		if e.Relationship != nil {
			if pos, ok := position[e.Relationship.Carrier]; ok {
				carrier, err := json.Marshal(pos)
				if err != nil {
					return "", fmt.Errorf("failed to encode carrier position: %w", err)
				}
				se.Rel = &sharedRel{Kind: string(e.Relationship.Kind), Carrier: carrier}
			}
		}
		shared.Entries = append(shared.Entries, se)
	}

	payload, err := json.Marshal(shared)
	if err != nil {
		return "", fmt.Errorf("failed to serialize shared roster: %w", err)
	}

	var buf bytes.Buffer
	writer, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to initialize compressor: %w", err)
	}
	if _, err := writer.Write(payload); err != nil {
		return "", fmt.Errorf("failed to compress shared roster: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish compression: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode unpacks a token into an imported roster: shared, locked, and
// carrying fresh identity for the roster and every entry and group.
// Reconstruction is two passes - entries are materialized first, then
// positional carriers are wired - because a relationship may point at an
// entry that appears later in the list. A corrupt token is an error the
// caller treats as "no shared roster".
func Decode(token string) (*roster.Roster, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed share token: %w", err)
	}

	reader := flate.NewReader(bytes.NewReader(raw))
	defer reader.Close()

	payload, err := io.ReadAll(io.LimitReader(reader, maxDecodedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress share token: %w", err)
	}

	var shared sharedRoster
	if err := json.Unmarshal(payload, &shared); err != nil {
		return nil, fmt.Errorf("failed to parse share token: %w", err)
	}

	now := time.Now()
	imported := &roster.Roster{
		ID:          uuid.NewString(),
		Name:        shared.Name,
		FactionID:   shared.Faction,
		PointsLimit: shared.Limit,
		Entries:     make([]roster.Entry, 0, len(shared.Entries)),
		Groups:      make([]roster.Group, 0, len(shared.Groups)),
		Shared:      true,
		EditMode:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	groupIDs := make(map[string]string, len(shared.Groups))
	for _, g := range shared.Groups {
		id := uuid.NewString()
		groupIDs[g.ID] = id
		imported.Groups = append(imported.Groups, roster.Group{ID: id, Name: g.Name})
	}

	// First pass: materialize entries with fresh identity.
	for _, se := range shared.Entries {
		count := se.Count
		if count < 1 {
			count = 1
		}
		imported.Entries = append(imported.Entries, roster.Entry{
			ID:         uuid.NewString(),
			UnitID:     se.Unit,
			Count:      count,
			CustomName: se.Name,
			Options:    se.Options,
			GroupID:    groupIDs[se.Group],
		})
	}

	// Second pass: resolve positional carriers onto the new ids. Legacy
	// tokens carry a raw entry id here; that identity is foreign to this
	// decode and the relationship is dropped rather than guessed at.
	for i, se := range shared.Entries {
		if se.Rel == nil {
			continue
		}

		var pos int
		if err := json.Unmarshal(se.Rel.Carrier, &pos); err != nil {
			continue
		}
		if pos < 0 || pos >= len(imported.Entries) || pos == i {
			continue
		}

		kind := roster.RelationKind(se.Rel.Kind)
		if !kind.IsValid() {
			continue
		}

		imported.Entries[i].Relationship = &roster.Relationship{
			Kind:    kind,
			Carrier: imported.Entries[pos].ID,
		}
	}

	return imported, nil
}
