package model

import json "github.com/goccy/go-json"

type CellState int

const (
	CellEmpty CellState = iota
	CellDiagonal
	CellValue
)

// Cell is one entry of a comparison table. Only CellValue carries a number.
type Cell struct {
	State CellState
	Value float64
}

// MarshalJSON renders values as numbers, the diagonal as "-" and empty
// cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.State {
	case CellValue:
		return json.Marshal(c.Value)
	case CellDiagonal:
		return []byte(`"-"`), nil
	default:
		return []byte("null"), nil
	}
}

// Table is indexed [row][col]: row is the baseline grade, col the grade
// compared against it.
type Table [NumGrades][NumGrades]Cell

// Value returns the number at (row, col) and whether it is defined.
func (t *Table) Value(row, col int) (float64, bool) {
	c := t[row][col]
	return c.Value, c.State == CellValue
}

type ComparisonTables struct {
	QALY       Table `json:"qaly"`
	Cost       Table `json:"cost"`
	NetBenefit Table `json:"net_benefit"`
}
