package sharecode

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"testing"

	"rygonet-server/internal/roster"
)

// encodeShared packs a hand-built shared document the same way Encode does,
// for exercising token shapes Encode itself no longer produces.
func encodeShared(shared *sharedRoster) (string, error) {
	payload, err := json.Marshal(shared)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := writer.Write(payload); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

func sampleRoster() *roster.Roster {
	return &roster.Roster{
		ID:          "src-roster",
		UserID:      7,
		Name:        "Strike Force",
		FactionID:   "alpha",
		PointsLimit: 150,
		Entries: []roster.Entry{
			{
				ID:           "e-inf",
				UnitID:       "rifles",
				Count:        2,
				CustomName:   "First Platoon",
				Options:      []int{0, 2},
				GroupID:      "g-1",
				Relationship: &roster.Relationship{Kind: roster.RelationEmbarked, Carrier: "e-apc"},
			},
			{ID: "e-apc", UnitID: "carrier", Count: 1},
		},
		Groups: []roster.Group{{ID: "g-1", Name: "First Squad", Collapsed: true}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	source := sampleRoster()

	token, err := Encode(source)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	imported, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if imported.Name != "Strike Force" || imported.FactionID != "alpha" || imported.PointsLimit != 150 {
		t.Errorf("metadata = %q/%q/%d, want Strike Force/alpha/150",
			imported.Name, imported.FactionID, imported.PointsLimit)
	}

	// The import is a foreign document: shared, locked, fresh identity.
	if !imported.Shared || imported.EditMode {
		t.Errorf("import state = shared:%v edit:%v, want shared:true edit:false", imported.Shared, imported.EditMode)
	}
	if imported.ID == source.ID {
		t.Error("roster id survived the share boundary")
	}
	if imported.UserID != 0 {
		t.Errorf("owner leaked through the token: %d", imported.UserID)
	}

	if len(imported.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(imported.Entries))
	}

	inf := &imported.Entries[0]
	apc := &imported.Entries[1]
	if inf.ID == "e-inf" || apc.ID == "e-apc" {
		t.Error("entry ids survived the share boundary")
	}
	if inf.Count != 2 || inf.CustomName != "First Platoon" {
		t.Errorf("entry fields = count:%d name:%q, want 2/First Platoon", inf.Count, inf.CustomName)
	}
	if len(inf.Options) != 2 || inf.Options[0] != 0 || inf.Options[1] != 2 {
		t.Errorf("options = %v, want [0 2]", inf.Options)
	}

	// Carriers are positional in the token and land on the fresh ids.
	if inf.Relationship == nil || inf.Relationship.Kind != roster.RelationEmbarked {
		t.Fatalf("relationship = %+v, want embarked", inf.Relationship)
	}
	if inf.Relationship.Carrier != apc.ID {
		t.Errorf("carrier = %q, want the imported apc id %q", inf.Relationship.Carrier, apc.ID)
	}

	if len(imported.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(imported.Groups))
	}
	if imported.Groups[0].ID == "g-1" {
		t.Error("group id survived the share boundary")
	}
	if inf.GroupID != imported.Groups[0].ID {
		t.Errorf("group reference = %q, want %q", inf.GroupID, imported.Groups[0].ID)
	}

	// Collapsed state is a viewer preference, not shared content.
	if imported.Groups[0].Collapsed {
		t.Error("collapsed flag crossed the share boundary")
	}
}

func TestEncodeDropsUnresolvableCarrier(t *testing.T) {
	source := sampleRoster()
	source.Entries[0].Relationship.Carrier = "never-existed"

	token, err := Encode(source)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	imported, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if imported.Entries[0].Relationship != nil {
		t.Error("relationship with unknown carrier survived encoding")
	}
}

func TestDecodeCorruptTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64url", token: "not!!valid##token"},
		{name: "base64 but not deflate", token: "aGVsbG8gd29ybGQ"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.token); err == nil {
				t.Error("Decode accepted a corrupt token")
			}
		})
	}
}

func TestDecodeZeroCountDefaultsToOne(t *testing.T) {
	source := sampleRoster()
	source.Entries[1].Count = 0

	token, err := Encode(source)
	if err != nil {
		t.Fatal(err)
	}
	imported, err := Decode(token)
	if err != nil {
		t.Fatal(err)
	}

	if imported.Entries[1].Count != 1 {
		t.Errorf("count = %d, want 1", imported.Entries[1].Count)
	}
}

func TestDecodeLegacyCarrierDropped(t *testing.T) {
	// Older tokens stored the raw entry id as the carrier. That identity
	// means nothing after a decode, so the relationship is dropped.
	legacy := sharedRoster{
		Name:    "Old Force",
		Faction: "alpha",
		Limit:   100,
		Entries: []sharedEntry{
			{Unit: "rifles", Count: 1, Rel: &sharedRel{Kind: "embarked", Carrier: []byte(`"e-apc"`)}},
			{Unit: "carrier", Count: 1},
		},
	}

	token, err := encodeShared(&legacy)
	if err != nil {
		t.Fatal(err)
	}

	imported, err := Decode(token)
	if err != nil {
		t.Fatalf("legacy token failed to decode: %v", err)
	}
	if imported.Entries[0].Relationship != nil {
		t.Error("legacy id-based carrier was not dropped")
	}
}

func TestDecodeRejectsBadPositionalCarriers(t *testing.T) {
	tests := []struct {
		name    string
		carrier string
		kind    string
	}{
		{name: "out of range", carrier: "9", kind: "embarked"},
		{name: "negative", carrier: "-1", kind: "embarked"},
		{name: "self reference", carrier: "0", kind: "embarked"},
		{name: "unknown kind", carrier: "1", kind: "strapped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := sharedRoster{
				Name:    "Force",
				Faction: "alpha",
				Limit:   100,
				Entries: []sharedEntry{
					{Unit: "rifles", Count: 1, Rel: &sharedRel{Kind: tt.kind, Carrier: []byte(tt.carrier)}},
					{Unit: "carrier", Count: 1},
				},
			}

			token, err := encodeShared(&shared)
			if err != nil {
				t.Fatal(err)
			}
			imported, err := Decode(token)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if imported.Entries[0].Relationship != nil {
				t.Error("invalid carrier reference survived the decode")
			}
		})
	}
}
