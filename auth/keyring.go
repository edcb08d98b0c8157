// Package auth keeps the site account password in the system keyring.
package auth

import (
	"github.com/filmscout/filmscout/constant"
	"github.com/zalando/go-keyring"
)

const service = constant.App + "-site"

// SetPassword stores the password of the site account user.
func SetPassword(user, password string) error {
	return keyring.Set(service, user, password)
}

// GetPassword returns the stored password of the site account user.
func GetPassword(user string) (string, error) {
	return keyring.Get(service, user)
}

// DeletePassword removes the stored password of the site account user.
func DeletePassword(user string) error {
	return keyring.Delete(service, user)
}
