package oauth2

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/jwtverify"
)

func (e *Engine) putJSON(ctx context.Context, category cache.Category, id string, v interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fail(KindInternal, err)
	}
	if err := e.cache.Put(ctx, category, id, payload, ttl); err != nil {
		return fail(KindStorage, err)
	}
	return nil
}

func decodeJSON(raw []byte, v interface{}) error {
	return json.Unmarshal(raw, v)
}

// canonicalAccount builds the OAuth2Account the DataStore persists from the
// verified ID-token claims and userinfo response (spec §4.7 step 8).
func canonicalAccount(provider string, claims *jwtverify.IdInfo, info UserInfo) datastore.OAuth2Account {
	name := claims.Name
	if name == "" {
		name = info.Name
	}
	picture := claims.Picture
	if picture == "" {
		picture = info.Picture
	}
	metadata, _ := datastore.EncodeMetadata(map[string]string{
		"given_name":  claims.GivenName,
		"family_name": claims.FamilyName,
		"hd":          claims.HD,
	})
	return datastore.OAuth2Account{
		Provider:       provider,
		ProviderUserID: claims.Sub,
		Name:           name,
		Email:          claims.Email,
		Picture:        picture,
		Metadata:       metadata,
	}
}
