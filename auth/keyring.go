// Package auth stores the YouTube Data API key in the system keyring.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/key"
	"github.com/zalando/go-keyring"
)

// ErrNoAPIKey is returned when neither the config nor the keyring holds a key.
var ErrNoAPIKey = errors.New("no YouTube API key configured")

const (
	service = constant.App
	user    = "youtube-api-key"
)

// SetAPIKey persists the key to the system keyring.
func SetAPIKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("empty API key")
	}
	return keyring.Set(service, user, apiKey)
}

// DeleteAPIKey removes the stored key. A missing key is not an error.
func DeleteAPIKey() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// APIKey resolves the key from config or environment first, then the keyring.
func APIKey() (string, error) {
	if k := strings.TrimSpace(viper.GetString(key.YouTubeAPIKey)); k != "" {
		return k, nil
	}

	k, err := keyring.Get(service, user)
	switch {
	case err == nil && k != "":
		return k, nil
	case err == nil, errors.Is(err, keyring.ErrNotFound):
		return "", ErrNoAPIKey
	default:
		return "", fmt.Errorf("read keyring: %w", err)
	}
}
