// Package engine implements the rules of a tile-matching puzzle: swap
// validation, match detection, cascade resolution, special pieces and
// board filling. It has no rendering or timing code; every phase returns
// a record that a presentation layer can replay.
package engine

import "fmt"

// PieceID identifies a piece for the lifetime of an engine.
type PieceID uint64

// SpecialKind tags a piece with its area effect.
type SpecialKind uint8

const (
	KindNone SpecialKind = iota
	KindRowClear
	KindColumnClear
	KindAreaClear
)

// String returns the string representation of a special kind.
func (k SpecialKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRowClear:
		return "row-clear"
	case KindColumnClear:
		return "column-clear"
	case KindAreaClear:
		return "area-clear"
	default:
		return "unknown"
	}
}

// Suffix returns the layout suffix for the kind ("" for plain pieces).
func (k SpecialKind) Suffix() string {
	switch k {
	case KindRowClear:
		return "-"
	case KindColumnClear:
		return "|"
	case KindAreaClear:
		return "*"
	default:
		return ""
	}
}

// Piece occupies exactly one cell. Only the grid writes its position, so
// Pos always mirrors the cell holding the piece.
type Piece struct {
	id     PieceID
	color  Color
	kind   SpecialKind
	radius int
	pos    Coord
}

// NewPiece creates a plain piece.
func NewPiece(id PieceID, color Color) *Piece {
	return &Piece{id: id, color: color}
}

// NewSpecial creates a special piece. radius is only kept for KindAreaClear.
func NewSpecial(id PieceID, color Color, kind SpecialKind, radius int) *Piece {
	p := &Piece{id: id, color: color, kind: kind}
	if kind == KindAreaClear {
		p.radius = radius
	}
	return p
}

// ID returns the piece identifier.
func (p *Piece) ID() PieceID { return p.id }

// Color returns the match color.
func (p *Piece) Color() Color { return p.color }

// Kind returns the special kind.
func (p *Piece) Kind() SpecialKind { return p.kind }

// Radius returns the Chebyshev radius of an area special, 0 otherwise.
func (p *Piece) Radius() int { return p.radius }

// Pos returns the cell the piece occupies.
func (p *Piece) Pos() Coord { return p.pos }

// IsSpecial reports whether the piece has an area effect.
func (p *Piece) IsSpecial() bool { return p.kind != KindNone }

// String returns the layout token of the piece, e.g. "R" or "B*".
func (p *Piece) String() string {
	return string(p.color.Char()) + p.kind.Suffix()
}

// Describe returns a verbose description for logs.
func (p *Piece) Describe() string {
	return fmt.Sprintf("#%d %s %s at %s", p.id, p.color, p.kind, p.pos)
}

func (p *Piece) clone() *Piece {
	c := *p
	return &c
}

// PieceRecord is an immutable snapshot of a piece at a point in time.
type PieceRecord struct {
	ID    PieceID
	At    Coord
	Color Color
	Kind  SpecialKind
}

// Record snapshots the piece.
func (p *Piece) Record() PieceRecord {
	return PieceRecord{ID: p.id, At: p.pos, Color: p.color, Kind: p.kind}
}

// String returns a compact representation of the record.
func (r PieceRecord) String() string {
	return fmt.Sprintf("#%d %c%s@%s", r.ID, r.Color.Char(), r.Kind.Suffix(), r.At)
}
