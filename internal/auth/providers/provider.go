package providers

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthUser is the provider-neutral identity the sign-in flow works with.
// Each provider maps its own API response onto this shape.
type OAuthUser struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// OAuthProvider abstracts one external identity provider. The callback
// handler is written against this interface only.
type OAuthProvider interface {
	Name() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error)
}
