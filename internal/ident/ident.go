// Package ident generates the prefixed identifiers used for flows, nodes,
// link groups and every element of an exported board.
package ident

import (
	"fmt"
	"sync"

	"go.jetify.com/typeid"
)

const (
	PrefixBoard  = "board"
	PrefixColumn = "col"
	PrefixCard   = "card"
	PrefixLabel  = "label"
	PrefixDyn    = "dyn"
	PrefixUnit   = "unit"
	PrefixFlow   = "flow"
	PrefixLink   = "link"
)

// Generator mints ids that are unique for the lifetime of the generator.
type Generator interface {
	New(prefix string) string
}

// TypeID produces globally unique, time-sortable ids such as
// "card_01h455vb4pex5vsknk084sn02q".
type TypeID struct{}

func (TypeID) New(prefix string) string {
	id, err := typeid.WithPrefix(prefix)
	if err != nil {
		panic(fmt.Sprintf("ident: invalid prefix %q: %v", prefix, err))
	}
	return id.String()
}

// Sequence is a deterministic generator scoped to one document: it yields
// "<prefix>_1", "<prefix>_2", ... with a single counter shared by every
// prefix.
type Sequence struct {
	mu sync.Mutex
	n  int
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) New(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}
