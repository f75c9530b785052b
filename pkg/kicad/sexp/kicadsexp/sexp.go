// Package kicadsexp provides a lightweight streaming S-expression parser
// and writer for KiCad board files. Unlike general-purpose sexp libraries,
// this parser can handle arbitrarily large files by streaming, and the
// writer emits the document back in KiCad's own layout so a parsed board
// can be edited and saved.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the unquoted string representation
	String() string
}

// Symbol represents a bare atom (identifier, number, keyword)
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// String represents a quoted string atom. It stringifies without quotes;
// the distinction from Symbol only matters when writing the document back.
type String string

func (s String) IsLeaf() bool   { return true }
func (s String) LeafCount() int { return 1 }
func (s String) Head() Sexp     { return s }
func (s String) Tail() Sexp     { return nil }
func (s String) String() string { return string(s) }

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list node from the given elements
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(elem.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Get returns the element at the given index, or nil if out of range
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Append adds elements to the end of the list
func (l *List) Append(elements ...Sexp) {
	l.elements = append(l.elements, elements...)
}

// Replace swaps the first element identical to target (interface identity)
// for replacement in place. Returns true if a swap happened.
func (l *List) Replace(target, replacement Sexp) bool {
	for i, elem := range l.elements {
		if elem == target {
			l.elements[i] = replacement
			return true
		}
	}
	return false
}

// Remove deletes the first element identical to target (interface identity,
// not structural equality). Returns true if an element was removed.
func (l *List) Remove(target Sexp) bool {
	for i, elem := range l.elements {
		if elem == target {
			l.elements = append(l.elements[:i], l.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Parse parses S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	parser := NewParser(r)
	return parser.ParseAll()
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
