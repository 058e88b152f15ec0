// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package id generates the opaque identifiers used as primary keys across
// all Emporia tables.
//
// # Format
//
// An id is a 21-character nanoid drawn from a fixed 36-symbol alphabet.
// Ids are generated exclusively by the write path and never trusted from
// client input.
package id

import gonanoid "github.com/matoous/go-nanoid/v2"

// Alphabet is the 36-symbol set that ids are drawn from.
//
// The digits 0 and 1 are excluded; "-" and "_" are included so the
// alphabet stays URL-safe without escaping.
const Alphabet = "23456789_abcdefghijklmnopqrstuvwxyz-"

// Length is the number of characters in a generated id.
const Length = 21

// New generates a new 21-character id.
//
// # Safety
//
// It panics only if the OS random source is unavailable (extremely rare).
// This is acceptable as OS entropy failure is an unrecoverable system-level error.
func New() string {
	v, err := gonanoid.Generate(Alphabet, Length)
	if err != nil {
		panic("id: failed to generate nanoid: " + err.Error())
	}
	return v
}

// Valid reports whether s is structurally a well-formed id: exactly
// [Length] characters, all drawn from [Alphabet].
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, c := range s {
		if !isAlphabetRune(c) {
			return false
		}
	}
	return true
}

func isAlphabetRune(c rune) bool {
	switch {
	case c >= '2' && c <= '9':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}
