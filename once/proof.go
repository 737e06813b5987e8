package once

// Proof is machine-checkable evidence that a [Cell] has been written.
//
// A valid Proof can only be minted by [Init] or [Bind]; the cell field is
// unexported, so application code cannot forge one. The zero Proof is
// invalid and must not be used: its Get panics on a nil dereference.
//
// Proof is a plain one-word value (the cell address). Copy it freely:
// into struct fields, through function parameters, across channels. Every
// copy resolves to the identical address. Because proofs can only be
// copied from a point in the program after the mint, and publishing a
// value across goroutines requires a synchronized handoff anyway, a proof
// received through a correct handoff carries the happens-before edge the
// read path needs.
type Proof[T any] struct {
	cell *Cell[T]
}

// Get returns a pointer to the initialized value.
//
// This is the zero-cost accessor the package exists for: a single
// indirection, no flag check, no atomic load, no lock. Correctness rests
// entirely on the invariant that the proof was minted after the cell was
// written and reached this goroutine through a path that preserves that
// ordering.
//
// The returned pointer is valid for the remaining lifetime of the
// process. Treat the pointee as read-only when the proof is shared;
// mutating through it is only sound when the holder can establish
// exclusive access by other means.
func (p Proof[T]) Get() *T {
	return &p.cell.value
}
