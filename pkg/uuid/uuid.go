// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are optimized for lexicographic sorting.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Collision-free: Safe for concurrently generated upload filenames.
  - Compact form: Dash-free variant for object storage keys.

Gametrack uses these values for request correlation IDs and generated upload
filenames; table primary keys remain plain bigserial integers.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}

// Compact generates a new UUIDv7 string with the dashes stripped.
//
// Used for generated upload filenames, where dashes add no value and
// shorter keys are friendlier to object storage listings.
func Compact() string {
	return strings.ReplaceAll(New(), "-", "")
}
