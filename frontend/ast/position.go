package ast

import (
	"fmt"
)

// Location is where a node starts in its source document.
// The zero Location means the node was synthesised
type Location struct {
	Line   int
	Column int
}

func (l Location) Known() bool { return l.Line > 0 }

func (l Location) String() string {
	if !l.Known() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Loc allows embedding Location to implement Positioner
func (l Location) Loc() Location { return l }

// Positioner allows finding the location in the original source document.
type Positioner interface {
	Loc() Location
}
