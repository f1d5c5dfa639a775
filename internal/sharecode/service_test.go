package sharecode

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"rygonet-server/internal/shared/errors"
)

func newTestShareService(slugs SlugStore) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(slugs, time.Hour, "https://lists.example.com", logger)
}

func TestMemorySlugStore(t *testing.T) {
	store := newMemorySlugStore()
	ctx := context.Background()

	if err := store.Put(ctx, "abc123", "token-payload", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	token, ok, err := store.Get(ctx, "abc123")
	if err != nil || !ok || token != "token-payload" {
		t.Errorf("Get = %q/%v/%v, want token-payload/true/nil", token, ok, err)
	}

	if _, ok, _ := store.Get(ctx, "missing"); ok {
		t.Error("unknown slug resolved")
	}

	// An expired entry reads as absent even before the sweep runs.
	if err := store.Put(ctx, "old", "stale", -time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, "old"); ok {
		t.Error("expired slug resolved")
	}

	store.sweepExpired()
	if _, held := store.entries["old"]; held {
		t.Error("sweep left the expired entry behind")
	}
}

func TestPublishAndResolveBySlug(t *testing.T) {
	store := newMemorySlugStore()
	svc := newTestShareService(store)
	ctx := context.Background()

	source := sampleRoster()
	link, err := svc.Publish(ctx, source)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if link.Token == "" || link.Slug == "" {
		t.Fatalf("link = %+v, want token and slug", link)
	}
	if !strings.HasPrefix(link.URL, "https://lists.example.com/shared#") {
		t.Errorf("url = %q, want token fragment on the frontend base", link.URL)
	}

	imported, err := svc.Resolve(ctx, link.Slug)
	if err != nil {
		t.Fatalf("Resolve by slug failed: %v", err)
	}
	if imported.Name != source.Name || !imported.Shared {
		t.Errorf("resolved roster = %q shared:%v, want %q shared:true", imported.Name, imported.Shared, source.Name)
	}
}

func TestResolveRawToken(t *testing.T) {
	svc := newTestShareService(newMemorySlugStore())
	ctx := context.Background()

	token, err := Encode(sampleRoster())
	if err != nil {
		t.Fatal(err)
	}

	// A full token works without any slug registration; the slug is only
	// a compact alias.
	imported, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve by token failed: %v", err)
	}
	if imported.FactionID != "alpha" {
		t.Errorf("faction = %q, want alpha", imported.FactionID)
	}
}

func TestResolveUndecodableToken(t *testing.T) {
	svc := newTestShareService(newMemorySlugStore())

	_, err := svc.Resolve(context.Background(), "this-is-not-a-share-link")
	if err == nil {
		t.Fatal("Resolve accepted garbage")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Type != errors.ErrorTypeNotFound {
		t.Errorf("error = %v, want not_found", err)
	}
}
