// Package keyring stores backend session tokens in the OS keyring so a
// remembered login survives process restarts without touching disk.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "passdesk"

// SaveToken stores a session token for a profile in the OS keyring.
func SaveToken(profileID string, token string) error {
	return keyring.Set(serviceName, profileID, token)
}

// GetToken retrieves a profile's session token from the OS keyring.
func GetToken(profileID string) (string, error) {
	return keyring.Get(serviceName, profileID)
}

// DeleteToken removes a profile's session token from the OS keyring.
func DeleteToken(profileID string) error {
	return keyring.Delete(serviceName, profileID)
}

// HasToken checks if a session token is stored for a profile.
func HasToken(profileID string) bool {
	_, err := keyring.Get(serviceName, profileID)
	return err == nil
}
