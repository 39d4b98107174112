// Package auth persists provider credentials (cookies, tokens, device ids) in the system keyring.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/mo"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/zalando/go-keyring"
)

// service is the keyring service every credential is stored under.
const service = constant.App

// ErrNotFound is returned when no credential is stored under the requested name.
var ErrNotFound = keyring.ErrNotFound

func user(provider, name string) string {
	return strings.ToLower(provider) + "/" + name
}

// Set stores a credential for a provider.
func Set(provider, name, value string) error {
	if err := keyring.Set(service, user(provider, name), value); err != nil {
		return fmt.Errorf("store %s credential %q: %w", provider, name, err)
	}
	return nil
}

// Get retrieves a credential. A missing credential yields ErrNotFound.
func Get(provider, name string) (string, error) {
	return keyring.Get(service, user(provider, name))
}

// Lookup is Get with absence folded into the option.
func Lookup(provider, name string) (mo.Option[string], error) {
	value, err := Get(provider, name)
	if errors.Is(err, ErrNotFound) {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), err
	}
	return mo.Some(value), nil
}

// Delete removes a credential.
func Delete(provider, name string) error {
	return keyring.Delete(service, user(provider, name))
}
