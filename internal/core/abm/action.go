// Package abm defines the operation triad (alta/baja/modificación) shared
// by every stored-procedure-backed resource. Each mutating procedure takes
// a single-character action flag; the closed enumeration here keeps call
// sites type-safe while preserving that wire contract.
package abm

import "fmt"

// Action selects the behavior of an ABM stored procedure.
type Action int

const (
	// Insert creates a new row and returns its generated identity.
	Insert Action = iota
	// Update modifies an existing row.
	Update
	// Void marks a delivery note as cancelled and reverses its stock.
	Void
	// Delete removes a row permanently.
	Delete
	// Report selects the denormalized reporting rowset.
	Report
	// Sales selects the sales report rowset.
	Sales
	// List selects the plain listing rowset of a catalog procedure.
	List
	// Lookup selects a single row by its natural key.
	Lookup
)

// Flag returns the single-character wire flag the procedures expect.
func (a Action) Flag() string {
	switch a {
	case Insert:
		return "I"
	case Update:
		return "U"
	case Void:
		return "A"
	case Delete:
		return "D"
	case Report:
		return "R"
	case Sales:
		return "V"
	case List:
		return "L"
	case Lookup:
		return "B"
	}
	panic(fmt.Sprintf("abm: unknown action %d", int(a)))
}

// String implements fmt.Stringer for logs.
func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Void:
		return "void"
	case Delete:
		return "delete"
	case Report:
		return "report"
	case Sales:
		return "sales"
	case List:
		return "list"
	case Lookup:
		return "lookup"
	}
	return fmt.Sprintf("action(%d)", int(a))
}
