package hive

import (
	"fmt"
	"strings"
)

// String lists the occupied hexes with their stacks, in axial coordinates.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("Board")
	for _, hex := range b.field.Hexes() {
		fmt.Fprintf(&sb, "\n\t%v: %v", ToAxial(hex), b.stacks[hex])
	}
	return sb.String()
}
