package sharecode

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"rygonet-server/internal/roster"
	"rygonet-server/internal/shared/errors"
)

// ShareLink is the result of publishing a roster: the self-contained
// token, a short slug for compact links, and the frontend URL carrying
// the token as a fragment.
type ShareLink struct {
	Token string `json:"token"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
}

type Service struct {
	slugs   SlugStore
	ttl     time.Duration
	baseURL string
	logger  *slog.Logger
}

func NewService(slugs SlugStore, ttl time.Duration, baseURL string, logger *slog.Logger) *Service {
	logger.Debug("Initializing share service")

	return &Service{
		slugs:   slugs,
		ttl:     ttl,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Publish encodes a roster and registers a short slug for it.
func (s *Service) Publish(ctx context.Context, r *roster.Roster) (*ShareLink, error) {
	logger := s.logger.With("component", "share_service", "operation", "publish", "roster_id", r.ID)

	token, err := Encode(r)
	if err != nil {
		logger.Error("Failed to encode roster", "error", err)
		return nil, fmt.Errorf("failed to encode roster: %w", err)
	}

	slug, err := newSlug()
	if err != nil {
		logger.Error("Failed to generate share slug", "error", err)
		return nil, fmt.Errorf("failed to generate share slug: %w", err)
	}

	if err := s.slugs.Put(ctx, slug, token, s.ttl); err != nil {
		logger.Error("Failed to store share slug", "error", err)
		return nil, fmt.Errorf("failed to store share slug: %w", err)
	}

	logger.Info("Roster published", "slug", slug, "token_length", len(token))

	return &ShareLink{
		Token: token,
		Slug:  slug,
		URL:   fmt.Sprintf("%s/shared#%s", s.baseURL, token),
	}, nil
}

// Resolve turns a slug or a raw token into the imported roster. Slugs are
// looked up first; anything unknown is treated as a token. A token that
// will not decode means there is no shared roster behind the link.
func (s *Service) Resolve(ctx context.Context, slugOrToken string) (*roster.Roster, error) {
	logger := s.logger.With("component", "share_service", "operation", "resolve")

	token := slugOrToken
	if stored, ok, err := s.slugs.Get(ctx, slugOrToken); err != nil {
		logger.Error("Slug lookup failed", "error", err)
		return nil, fmt.Errorf("slug lookup failed: %w", err)
	} else if ok {
		token = stored
	}

	imported, err := Decode(token)
	if err != nil {
		logger.Debug("Share token did not decode", "error", err)
		return nil, errors.NotFoundf("no shared roster found for this link")
	}

	imported.Normalize()
	return imported, nil
}

func newSlug() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
