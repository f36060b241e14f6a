// SPDX-License-Identifier: GPL-3.0-only

package apikeys

import "errors"

var (
	// ErrQuotaExceeded is returned by Generate when the user already has
	// the configured maximum of active keys.
	ErrQuotaExceeded = errors.New("user has reached the maximum number of active API keys")

	// ErrKeyNotFound is returned when a key does not exist or is owned by
	// another user. The two cases are indistinguishable to the caller.
	ErrKeyNotFound = errors.New("API key not found")

	// ErrActiveKeyNotFound is returned by Rotate when the key is absent,
	// foreign or already revoked.
	ErrActiveKeyNotFound = errors.New("active API key not found")
)
