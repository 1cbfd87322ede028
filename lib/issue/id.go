// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// IDs are 12 bytes rendered as 24 hex digits: a 4-byte big-endian
// Unix-seconds creation timestamp followed by 8 random bytes, the
// same shape as a Mongo ObjectID. "Is this a well-formed id" is a
// pure parse question, so a malformed id can be rejected before ever
// reaching the store.
const (
	idRawLength = 12
	idHexLength = 24
)

// ErrInvalidID reports an identifier that does not have the required
// 24-hex-digit shape. Handlers translate this into the same outcome
// as "no such record".
var ErrInvalidID = errors.New("invalid issue id")

// ID is an opaque, store-assigned, immutable per-record key.
type ID string

// NewID generates a fresh identifier whose leading 4 bytes encode the
// given creation time.
func NewID(now time.Time) ID {
	var raw [idRawLength]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(now.Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("issue: reading random bytes: %v", err))
	}
	return ID(hex.EncodeToString(raw[:]))
}

// ParseID validates the identifier shape: exactly 24 hex digits.
// Uppercase hex is accepted and normalized to lowercase. Any other
// input returns an error wrapping ErrInvalidID.
func ParseID(s string) (ID, error) {
	if len(s) != idHexLength {
		return "", fmt.Errorf("%w: %q is not %d hex digits", ErrInvalidID, s, idHexLength)
	}
	normalized := strings.ToLower(s)
	if _, err := hex.DecodeString(normalized); err != nil {
		return "", fmt.Errorf("%w: %q is not hex", ErrInvalidID, s)
	}
	return ID(normalized), nil
}

// Time extracts the creation timestamp encoded in the identifier's
// leading 4 bytes.
func (id ID) Time() time.Time {
	raw, err := hex.DecodeString(string(id))
	if err != nil || len(raw) != idRawLength {
		return time.Time{}
	}
	seconds := binary.BigEndian.Uint32(raw[:4])
	return time.Unix(int64(seconds), 0).UTC()
}

func (id ID) String() string { return string(id) }
