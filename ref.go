package strata

import (
	"fmt"
	"strconv"
)

// LayerRef names a layer either by ID or by Name. The interface is sealed;
// use ID(n) or Name(s).
type LayerRef interface {
	fmt.Stringer
	lookup(s *System) *Layer
}

// ID refers to a layer by its numeric identity.
type ID int

// Name refers to a layer by its registered name.
type Name string

func (id ID) String() string { return "#" + strconv.Itoa(int(id)) }

func (n Name) String() string { return strconv.Quote(string(n)) }

func (id ID) lookup(s *System) *Layer {
	return s.layers[int(id)]
}

func (n Name) lookup(s *System) *Layer {
	id, ok := s.names[string(n)]
	if !ok {
		return nil
	}
	return s.layers[id]
}
