// Package auth resolves booru API credentials from config, env or the system keyring.
package auth

import (
	"errors"

	"github.com/imgscout/imgscout/constant"
	"github.com/imgscout/imgscout/key"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	apiKeyUser = "booru-api-key"
	userIDUser = "booru-user-id"
)

// Credentials is an API key paired with the account it belongs to.
type Credentials struct {
	APIKey string
	UserID string
}

// Valid reports whether both halves are present.
func (c Credentials) Valid() bool {
	return c.APIKey != "" && c.UserID != ""
}

// SetCredentials stores the pair in the system keyring.
func SetCredentials(c Credentials) error {
	if !c.Valid() {
		return errors.New("both api key and user id are required")
	}
	if err := keyring.Set(constant.App, apiKeyUser, c.APIKey); err != nil {
		return err
	}
	return keyring.Set(constant.App, userIDUser, c.UserID)
}

// DeleteCredentials removes the pair from the system keyring.
func DeleteCredentials() error {
	for _, user := range []string{apiKeyUser, userIDUser} {
		if err := keyring.Delete(constant.App, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
	}
	return nil
}

// Booru returns the configured credentials. Config and env take precedence
// over the keyring. Half-configured pairs count as absent.
func Booru() mo.Option[Credentials] {
	fromConfig := Credentials{
		APIKey: viper.GetString(key.BooruAPIKey),
		UserID: viper.GetString(key.BooruUserID),
	}
	if fromConfig.Valid() {
		return mo.Some(fromConfig)
	}

	apiKey, err := keyring.Get(constant.App, apiKeyUser)
	if err != nil {
		return mo.None[Credentials]()
	}
	userID, err := keyring.Get(constant.App, userIDUser)
	if err != nil {
		return mo.None[Credentials]()
	}

	fromKeyring := Credentials{APIKey: apiKey, UserID: userID}
	if !fromKeyring.Valid() {
		return mo.None[Credentials]()
	}
	return mo.Some(fromKeyring)
}
