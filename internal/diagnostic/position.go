package diagnostic

import "fmt"

// Position is a source location attached to every parsed entity. Line and
// Column are 1-based; a zero Line means the position is unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String formats the position as file:line:column.
func (p Position) String() string {
	file := p.File
	if file == "" {
		file = "-"
	}

	if !p.IsValid() {
		return file
	}

	if p.Column == 0 {
		return fmt.Sprintf("%s:%d", file, p.Line)
	}

	return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Column)
}

// Advance returns the position shifted by a column offset on the same line.
func (p Position) Advance(cols int) Position {
	if !p.IsValid() {
		return p
	}

	if p.Column == 0 {
		p.Column = 1
	}

	p.Column += cols

	return p
}
