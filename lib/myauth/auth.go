package myauth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/MarcGrol/bookingbackend/lib/myhttp"
)

const (
	tokenName   = "booking_identity"
	tokenMaxAge = 14 * 24 * time.Hour
)

// Authenticator resolves the identity behind a request. Anonymous requests are legitimate.
type Authenticator interface {
	UserID(r *http.Request) (string, bool)
}

type TokenAuthenticator struct {
	codec *securecookie.SecureCookie
}

// New verifies bearer tokens that the identity provider signed with the shared keys.
// Without a hash key every request is anonymous.
func New(hashKey []byte, blockKey []byte) Authenticator {
	if len(hashKey) == 0 {
		return anonymous{}
	}
	return NewTokenAuthenticator(hashKey, blockKey)
}

func NewTokenAuthenticator(hashKey []byte, blockKey []byte) *TokenAuthenticator {
	if len(blockKey) == 0 {
		blockKey = nil
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(tokenMaxAge.Seconds()))
	return &TokenAuthenticator{codec: codec}
}

// IssueToken creates a token for userID, used by the identity provider and for local testing
func (a *TokenAuthenticator) IssueToken(userID string) (string, error) {
	token, err := a.codec.Encode(tokenName, map[string]string{"uid": userID})
	if err != nil {
		return "", fmt.Errorf("error encoding identity token: %s", err)
	}
	return token, nil
}

func (a *TokenAuthenticator) UserID(r *http.Request) (string, bool) {
	token, found := myhttp.BearerToken(r)
	if !found {
		return "", false
	}

	value := map[string]string{}
	err := a.codec.Decode(tokenName, token, &value)
	if err != nil {
		return "", false
	}

	userID := value["uid"]
	return userID, userID != ""
}

type anonymous struct{}

func (anonymous) UserID(r *http.Request) (string, bool) {
	return "", false
}
