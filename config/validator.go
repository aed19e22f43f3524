// Package config validates simulation input and loads simulation settings.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidConfig is matched by every ConfigError through errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	// NonPositiveFrameCount means the frame count was zero or negative.
	NonPositiveFrameCount ErrorKind = iota + 1
	// MalformedToken means a sequence token is not an integer.
	MalformedToken
	// NegativePage means a sequence token is a negative integer.
	NegativePage
)

func (k ErrorKind) String() string {
	switch k {
	case NonPositiveFrameCount:
		return "non-positive frame count"
	case MalformedToken:
		return "malformed token"
	case NegativePage:
		return "negative page"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ConfigError describes why input was rejected.
type ConfigError struct {
	Kind ErrorKind
	// Position is the zero-based index of the offending token.
	Position int
	// Token is the offending token text.
	Token string
	// Value is the offending number: the frame count or the negative page.
	Value int
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case NonPositiveFrameCount:
		return fmt.Sprintf("%v: number of frames must be positive, got %d", ErrInvalidConfig, e.Value)
	case MalformedToken:
		return fmt.Sprintf("%v: token %d (%q) is not an integer", ErrInvalidConfig, e.Position+1, e.Token)
	case NegativePage:
		return fmt.Sprintf("%v: page numbers cannot be negative, token %d is %d",
			ErrInvalidConfig, e.Position+1, e.Value)
	default:
		return fmt.Sprintf("%v: %v", ErrInvalidConfig, e.Kind)
	}
}

// Is matches ErrInvalidConfig and any ConfigError of the same kind.
func (e *ConfigError) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}

	var other *ConfigError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}

	return false
}

// Validated is input that passed validation and can reset an engine.
type Validated struct {
	FrameCount int
	Sequence   []int
}

// Parse validates a frame count and a comma-separated access sequence.
// An empty or blank sequence yields an empty, non-nil slice.
func Parse(frameCount int, raw string) (Validated, error) {
	if frameCount <= 0 {
		return Validated{}, &ConfigError{Kind: NonPositiveFrameCount, Value: frameCount}
	}

	sequence, err := ParseSequence(raw)
	if err != nil {
		return Validated{}, err
	}

	return Validated{FrameCount: frameCount, Sequence: sequence}, nil
}

// ParseSequence parses comma-separated page numbers. All tokens are checked
// to be integers before any is checked for sign.
func ParseSequence(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{}, nil
	}

	tokens := strings.Split(raw, ",")
	sequence := make([]int, 0, len(tokens))

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		page, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &ConfigError{Kind: MalformedToken, Position: i, Token: tok}
		}
		sequence = append(sequence, page)
	}

	for i, page := range sequence {
		if page < 0 {
			return nil, &ConfigError{
				Kind:     NegativePage,
				Position: i,
				Token:    strconv.Itoa(page),
				Value:    page,
			}
		}
	}

	return sequence, nil
}

// FormatSequence renders pages in the form accepted by ParseSequence.
func FormatSequence(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}
