package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBelt is returned when a belt value is outside the fixed ranking.
var ErrUnknownBelt = errors.New("unknown belt level")

// Belt is a jiu-jitsu rank. The zero value is not a valid belt.
type Belt string

const (
	BeltWhite  Belt = "white"
	BeltBlue   Belt = "blue"
	BeltPurple Belt = "purple"
	BeltBrown  Belt = "brown"
	BeltBlack  Belt = "black"
)

// BeltOrder lists every belt from lowest to highest rank.
var BeltOrder = []Belt{BeltWhite, BeltBlue, BeltPurple, BeltBrown, BeltBlack}

// ParseBelt normalizes s and returns the matching belt.
func ParseBelt(s string) (Belt, error) {
	b := Belt(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBelt, s)
	}
	return b, nil
}

// Valid reports whether b is one of the ranked belts.
func (b Belt) Valid() bool {
	return b.Rank() >= 0
}

// Rank returns the zero-based position of b in BeltOrder, or -1.
func (b Belt) Rank() int {
	for i, o := range BeltOrder {
		if o == b {
			return i
		}
	}
	return -1
}

// Terminal reports whether b has no further progression.
func (b Belt) Terminal() bool {
	return b == BeltBlack
}

func (b Belt) String() string {
	return string(b)
}
