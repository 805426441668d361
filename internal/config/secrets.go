package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

// DirectoryPassword reads the directory account password from the OS keyring.
// A missing entry is not an error: public directories need no credentials.
func DirectoryPassword(user string) (string, error) {
	if user == "" {
		return "", nil
	}
	pwd, err := keyring.Get(KeyringService, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			slog.Debug(MsgPassFail, LogKeyComponent, CompConfig, LogKeyUser, user)
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", ErrSecretGet, err)
	}
	return pwd, nil
}

// SetDirectoryPassword stores the directory account password in the OS keyring.
func SetDirectoryPassword(user, password string) error {
	if err := keyring.Set(KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", ErrSecretSet, err)
	}
	slog.Info(MsgSecretStored, LogKeyComponent, CompConfig, LogKeyUser, user)
	return nil
}
