// Package ident converts store-native record identifiers to and from the
// canonical string form used in request paths and JSON payloads.
//
// Records are keyed by ULIDs: 16 opaque bytes in the database, 26 Crockford
// base32 characters everywhere else.
package ident

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EncodedLen is the length of every canonical identifier string.
const EncodedLen = ulid.EncodedSize

// ErrInvalidIdentifier is returned by Decode for any string that is not the
// canonical encoding of an identifier.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ID is the store-native record identifier.
type ID = ulid.ULID

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// New generates a new identifier. IDs generated by one process sort in
// creation order.
func New() ID {
	entropyLock.Lock()
	defer entropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// Encode returns the canonical string form of id.
func Encode(id ID) string {
	return id.String()
}

// Decode parses a canonical identifier string. Wrong length, characters
// outside the Crockford alphabet, values overflowing 128 bits and
// non-canonical spellings (such as lowercase) are all rejected.
func Decode(s string) (ID, error) {
	if len(s) != EncodedLen {
		return ID{}, ErrInvalidIdentifier
	}

	id, err := ulid.ParseStrict(s)
	if err != nil {
		return ID{}, ErrInvalidIdentifier
	}

	if id.String() != s {
		return ID{}, ErrInvalidIdentifier
	}

	return id, nil
}

// IsValid reports whether s decodes to an identifier.
func IsValid(s string) bool {
	_, err := Decode(s)
	return err == nil
}
