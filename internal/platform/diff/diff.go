// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package diff implements the partial-update engine shared by every mutable
resource (accounts, biodata, play histories).

Given a declared field schema, a snapshot of the stored record, and the
caller-submitted partial payload, it computes the minimal set of fields that
actually changed and returns them as a reviewable {before, after} pair.

Semantics:

  - Only fields declared in the schema participate; undeclared keys are
    silently ignored, never treated as errors.
  - Submitted values are normalized to the declared field kind before
    comparison, so form-encoded numeric strings compare meaningfully
    against stored integers.
  - Values that cannot be normalized are rejected with a field-level
    validation error rather than registering as a bogus change.
  - The engine is pure: it never mutates the snapshot and never touches
    storage. An empty result signals the caller to skip validation and
    persistence entirely.

Fields are visited in explicit sorted order, so the diff (and the dynamic
UPDATE built from it) is deterministic regardless of payload key order.
*/
package diff

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/validate"
)

// Kind is the semantic type of a mutable field, used to normalize
// submitted values before equality comparison.
type Kind int

const (
	// KindString fields compare as plain strings.
	KindString Kind = iota

	// KindInt fields accept JSON numbers, integers, and numeric strings.
	KindInt
)

// Schema declares the mutable fields of a resource type and their kinds.
//
// Making the permitted field list explicit (rather than reflecting over
// whatever keys a storage row happens to carry) is what keeps id, ownership,
// and timestamp columns out of reach of partial updates.
type Schema map[string]Kind

// Record is a flat field-name → value map. Snapshots of stored records and
// submitted partial payloads both use this shape.
type Record map[string]any

// Result is the {before, after} pair of only the fields a partial update
// actually changes. Both maps always hold the same key set.
type Result struct {
	Before Record `json:"before"`
	After  Record `json:"after"`
}

// Empty reports whether no field changed.
func (r Result) Empty() bool {
	return len(r.After) == 0
}

// Changed reports whether the named field is part of the diff.
func (r Result) Changed(field string) bool {
	_, ok := r.After[field]
	return ok
}

// Fields returns the changed field names in sorted order.
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r.After))
	for field := range r.After {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Compute compares a stored record snapshot against a submitted partial
// payload and returns the {before, after} pair of changed fields.
//
// # Parameters
//   - schema: Declared mutable fields of the resource type.
//   - current: Full snapshot of the stored record.
//   - submitted: Partial map of only the fields the caller wishes to change.
//
// # Returns
//   - Result: The before/after pair; empty when nothing changed.
//   - error: A 400 validation error when a submitted value cannot be
//     normalized to its declared kind.
func Compute(schema Schema, current Record, submitted Record) (Result, error) {
	result := Result{Before: Record{}, After: Record{}}
	var fieldErrors []apperr.FieldError

	for _, field := range sortedKeys(submitted) {
		kind, declared := schema[field]
		if !declared {
			// Unknown keys are ignored, not errors.
			continue
		}

		normalized, err := normalize(kind, field, submitted[field])
		if err != nil {
			fieldErrors = append(fieldErrors, apperr.FieldError{
				Msg:      err.Error(),
				Param:    field,
				Location: validate.LocationBody,
				Value:    submitted[field],
			})
			continue
		}

		if normalized == current[field] {
			continue
		}

		result.Before[field] = current[field]
		result.After[field] = normalized
	}

	if len(fieldErrors) > 0 {
		return Result{}, apperr.ValidationError("Validation failed", fieldErrors...)
	}

	return result, nil
}

// Normalize coerces every schema-declared field of a submitted payload to
// its declared kind. Undeclared keys are dropped. Creation flows use this to
// apply the same numeric-string coercion the diff applies on updates.
//
// # Returns
//   - Record: The coerced copy, containing only declared fields.
//   - error: A 400 validation error when a value cannot be coerced.
func Normalize(schema Schema, submitted Record) (Record, error) {
	normalized := Record{}
	var fieldErrors []apperr.FieldError

	for _, field := range sortedKeys(submitted) {
		kind, declared := schema[field]
		if !declared {
			continue
		}

		value, err := normalize(kind, field, submitted[field])
		if err != nil {
			fieldErrors = append(fieldErrors, apperr.FieldError{
				Msg:      err.Error(),
				Param:    field,
				Location: validate.LocationBody,
				Value:    submitted[field],
			})
			continue
		}

		normalized[field] = value
	}

	if len(fieldErrors) > 0 {
		return nil, apperr.ValidationError("Validation failed", fieldErrors...)
	}

	return normalized, nil
}

// normalize coerces a submitted value to the declared field kind.
func normalize(kind Kind, field string, value any) (any, error) {
	switch kind {
	case KindInt:
		return toInt(field, value)
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", field)
		}
		return str, nil
	}
}

// toInt accepts the three shapes an integer field arrives in: a Go int
// (tests, internal callers), a float64 (encoding/json numbers), or a
// string (HTML form fields).
func toInt(field string, value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", field)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%s must be an integer", field)
	}
}

// sortedKeys returns the record's keys in sorted order.
func sortedKeys(record Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
