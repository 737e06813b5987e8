package once

import (
	"runtime"
	"strconv"
)

// Init claims the cell, stores value into it, and mints the proof.
//
// This is the single sanctioned initialization entry point. Call it at one
// well-defined point in program startup and thread the returned proof
// through the rest of the program:
//
//	var registryCell once.Cell[Registry]
//
//	func main() {
//		reg := once.Init(&registryCell, buildRegistry())
//		run(reg)
//	}
//
// Init panics if the cell has already been claimed by a previous Init or
// [Bind], reporting the file:line of the first claim. The duplicate check
// is a single compare-and-swap on this path only; it adds nothing to
// [Proof.Get]. Use the oncecheck tool to catch duplicate call sites before
// the program ever runs.
//
// Init does not synchronize the stored value against readers. The claim
// CAS orders competing initializers, not initializer against reader; see
// the package documentation for the happens-before obligation.
func Init[T any](c *Cell[T], value T) Proof[T] {
	c.claim("Init")
	c.value = value
	return Proof[T]{cell: c}
}

// Bind claims the cell and mints the proof without storing a value.
//
// Bind is the pairing half of the raw [Cell.Set] escape hatch, for
// composite initialization where the value must be assembled in place
// before the claim:
//
//	cell.Set(Outer{inner: innerProof})
//	outer := once.Bind(&cell)
//
// The contract is the same as for [Init]: exactly one claim per cell, and
// every Set must have completed before the Bind. Bind on an unwritten cell
// mints a proof whose Get observes the zero value of T, which is a
// contract violation, not a feature.
//
// Bind panics if the cell has already been claimed.
func Bind[T any](c *Cell[T]) Proof[T] {
	c.claim("Bind")
	return Proof[T]{cell: c}
}

// claimSite is the recorded location of a winning claim. It exists only
// to make the duplicate-claim panic actionable.
type claimSite struct {
	file string
	line int
}

func (s *claimSite) String() string {
	return s.file + ":" + strconv.Itoa(s.line)
}

// callerSite captures the caller's file:line, skip frames above it.
// Returns a site with file "unknown" when the runtime cannot resolve the
// caller (stripped binaries).
func callerSite(skip int) *claimSite {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return &claimSite{file: "unknown"}
	}
	return &claimSite{file: file, line: line}
}
