package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
)

// ErrInvalidRef is returned for a malformed signal reference string.
var ErrInvalidRef = errors.New("invalid signal reference")

// ParseRef parses a signal reference: a name followed by any number of
// bracketed indices, as in "d", "d[3]", "d[2:6]" or "d[::-1][0]".
func ParseRef(s string) (ast.Ref, error) {
	s = strings.TrimSpace(s)
	name, rest, _ := strings.Cut(s, "[")
	name = strings.TrimSpace(name)
	if !isIdent(name) {
		return ast.Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	ref := ast.Ref{Signal: name}
	if len(name) == len(s) {
		return ref, nil
	}

	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return ast.Ref{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidRef, rest, s)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return ast.Ref{}, fmt.Errorf("%w: unclosed '[' in %q", ErrInvalidRef, s)
		}
		idx, err := hdl.ParseIndex(rest[1:end])
		if err != nil {
			return ast.Ref{}, fmt.Errorf("%w: %q: %w", ErrInvalidRef, s, err)
		}
		ref.Indices = append(ref.Indices, idx)
		rest = strings.TrimSpace(rest[end+1:])
	}
	return ref, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
