// Package hasher provides the canonical digest used to link blocks together
// and to check puzzle solutions.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

// ZeroDigest represents a digest of all zeros. It is never produced by
// hashing real data in practice.
const ZeroDigest = "0000000000000000000000000000000000000000000000000000000000000000"

// ErrInvalidUTF8 is returned when a string in the value is not valid UTF-8.
// The encoder would replace the bad bytes, so different values would share
// a digest.
var ErrInvalidUTF8 = errors.New("string is not valid utf-8")

// canonical encodes objects with their keys sorted by name at every level
// and keeps numbers exactly as they were written.
var canonical = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// =============================================================================

// Digest returns the lowercase hex SHA-256 of the canonical form of the value.
// Two values that marshal to the same fields produce the same digest no
// matter how those fields are declared or in what order a map yields them.
func Digest(value any) (string, error) {
	data, err := Canonical(value)
	if err != nil {
		return "", err
	}

	return Sum(data), nil
}

// Canonical returns the bytes that Digest hashes. The value is marshaled,
// decoded into generic maps and marshaled again so every object, including
// nested ones, is written with sorted keys.
func Canonical(value any) ([]byte, error) {
	if err := checkUTF8(reflect.ValueOf(value)); err != nil {
		return nil, err
	}

	data, err := canonical.Marshal(value)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := canonical.Unmarshal(data, &generic); err != nil {
		return nil, err
	}

	return canonical.Marshal(generic)
}

// Sum returns the lowercase hex SHA-256 of the raw bytes.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// checkUTF8 walks the value and fails on the first string that is not valid
// UTF-8, including map keys.
func checkUTF8(v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return fmt.Errorf("%w: %q", ErrInvalidUTF8, v.String())
		}

	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			return checkUTF8(v.Elem())
		}

	case reflect.Struct:
		for i := range v.NumField() {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			if err := checkUTF8(v.Field(i)); err != nil {
				return err
			}
		}

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := range v.Len() {
			if err := checkUTF8(v.Index(i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkUTF8(iter.Key()); err != nil {
				return err
			}
			if err := checkUTF8(iter.Value()); err != nil {
				return err
			}
		}
	}

	return nil
}
