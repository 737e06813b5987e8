package once

import "sync/atomic"

// Cell claim states. Only Init/Bind look at these; the read path does not.
const (
	stateEmpty   uint32 = 0
	stateClaimed uint32 = 1
)

// Cell is the raw, address-stable storage slot for one process-lifetime
// value of type T.
//
// The zero value is an empty cell, so the idiomatic declaration is a
// package-level var next to the guarded type:
//
//	type Registry struct{ ... }
//
//	var registryCell once.Cell[Registry]
//
// A package-level cell has a stable address for the lifetime of the
// process. Heap cells created with [NewCell] are equally safe in Go: every
// Proof embeds the cell pointer, so the cell stays reachable as long as
// any proof for it exists.
//
// Lifecycle: empty at startup, written exactly once through [Init] or
// Set-then-[Bind], read arbitrarily many times thereafter. There is no
// transition back to empty.
//
// A Cell must not be copied after first use; share it by pointer.
type Cell[T any] struct {
	value T

	// state is the one-shot claim flag, touched only by Init and Bind.
	// Proof.Get and the raw accessors never load it, which is what keeps
	// the post-init read path branch-free.
	state atomic.Uint32

	// site records where the winning claim happened, for the duplicate
	// panic message. Written once, off the read path.
	site atomic.Pointer[claimSite]
}

// NewCell returns a pointer to a fresh empty cell.
//
// Equivalent to &Cell[T]{}. Provided for non-static scenarios where the
// cell is constructed at runtime rather than declared as a package-level
// var.
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

// Set stores v into the cell without any bookkeeping.
//
// This is the raw escape hatch for composite initialization, where the
// value has to be assembled in place before the claim is made (see [Bind]
// for the pairing rule). Most code should use [Init] instead.
//
// Preconditions (caller-enforced, not checked):
//  1. This is the first write to the cell.
//  2. No read or write of the cell is in flight concurrently.
//
// Violating either precondition has unspecified consequences. Calling Set
// after the cell has been claimed by Init is likewise a contract
// violation: proofs already minted would observe the overwrite.
func (c *Cell[T]) Set(v T) {
	c.value = v
}

// Get returns a pointer to the cell's contents without any check.
//
// This is the raw escape hatch; most code should reach the value through
// [Proof.Get] so that access is gated on evidence of initialization.
//
// Precondition (caller-enforced, not checked): a prior Set or Init has
// completed and its write is visible to this goroutine. Calling Get on an
// unwritten cell returns a pointer to the zero value of T, which the
// contract treats as unspecified, not as a defined "not yet" signal.
func (c *Cell[T]) Get() *T {
	return &c.value
}

// claim performs the one-shot compare-and-swap shared by Init and Bind.
// op names the entry point for the panic message.
func (c *Cell[T]) claim(op string) {
	if !c.state.CompareAndSwap(stateEmpty, stateClaimed) {
		prev := c.site.Load()
		if prev != nil {
			panic("staticonce: " + op + ": cell already initialized at " + prev.String())
		}
		panic("staticonce: " + op + ": cell already initialized")
	}
	// Record the winning site. Only the CAS winner reaches this store.
	c.site.Store(callerSite(3))
}
