package trie

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAlias      = errors.New("alias already exists")
	ErrNotFound            = errors.New("no exact alias match")
	ErrInvalidAlias        = errors.New("alias must be a non-empty ASCII string")
	ErrInternalConsistency = errors.New("trie invariant violated")
)

// ValidateAlias rejects empty and non-ASCII aliases.
func ValidateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAlias)
	}
	for i := 0; i < len(alias); i++ {
		if alias[i] >= 0x80 {
			return fmt.Errorf("%w: %q has a non-ASCII byte at %d", ErrInvalidAlias, alias, i)
		}
	}
	return nil
}
