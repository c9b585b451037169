package ident

import (
	"fmt"
	"strings"
)

// Format is the storage convention of a multi-dimensional signal.
type Format uint8

// Unpacked is the zero value; packed and unpacked references render alike.
const (
	Unpacked Format = iota
	Packed
	Serialized
)

func (f Format) String() string {
	switch f {
	case Packed:
		return "packed"
	case Unpacked:
		return "unpacked"
	case Serialized:
		return "serialized"
	}
	return "unknown"
}

// ParseFormat converts a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "packed":
		return Packed, nil
	case "", "unpacked":
		return Unpacked, nil
	case "serialized":
		return Serialized, nil
	}
	return Unpacked, fmt.Errorf("invalid array format: %q (expected: packed|unpacked|serialized)", s)
}
