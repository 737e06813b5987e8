// Package once provides exactly-once initialization of process-lifetime
// values with zero-cost reads after initialization.
//
// The package targets programs that need global singletons whose
// initialization order is controlled explicitly by the program, and whose
// post-init access must be as cheap as a plain memory read: no atomic flag,
// no lock, and no branch on the read path.
//
// # Quick Start
//
//	package main
//
//	import "github.com/kolkov/staticonce/once"
//
//	type Config struct {
//		Addr string
//	}
//
//	var configCell once.Cell[Config]
//
//	func main() {
//		proof := once.Init(&configCell, Config{Addr: ":8080"})
//		serve(proof)
//	}
//
//	func serve(cfg once.Proof[Config]) {
//		// cfg.Get() is a single indirection. No flag check, no lock.
//		_ = cfg.Get().Addr
//	}
//
// # The Model
//
// Three pieces cooperate:
//
//   - [Cell] is the raw, address-stable storage slot. Its zero value is an
//     empty cell, so a package-level `var c once.Cell[T]` is ready to use.
//     Cell offers unchecked Set/Get escape hatches whose misuse is a
//     contract violation, not a reported error.
//   - [Proof] is the initialization token. A valid Proof for a cell can
//     only be minted by [Init] or [Bind], so holding one is evidence that
//     the cell has been written. Proofs are plain values: copy them into
//     struct fields, pass them as parameters, send them over channels.
//   - [Init] (and its escape hatch [Bind]) is the single sanctioned entry
//     point. It claims the cell with one compare-and-swap, stores the
//     value, and returns the proof. A second claim of the same cell
//     panics, reporting where the first claim happened.
//
// # The Exactly-Once Contract
//
// Duplicate initialization is caught in two layers:
//
//   - Build time: the oncecheck tool (cmd/oncecheck) scans a program for
//     sanctioned-initialization call sites and reports any cell that is
//     claimed from more than one compiled call site, as well as claims
//     that sit inside a loop. Run it the way you would run go vet.
//   - Run time: the one-shot guard inside Init/Bind panics on a duplicate
//     claim. The guard costs one compare-and-swap on the init path only;
//     Proof.Get never touches it.
//
// Note the boundary precisely: oncecheck proves "at most one compiled
// call site claims this cell", not "this code path executes at most once
// at runtime". A single call site inside a function that is called twice
// passes the lint and panics on the second call. Treating the two
// guarantees as equivalent is a correctness trap; structure the program so
// the claim site is reached once (typically directly inside main).
//
// # Memory Ordering
//
// The package does not synchronize the initializing write against readers.
// The caller must guarantee that the write happens-before every read
// through a proof. The two standard shapes:
//
//   - Initialize on one goroutine before spawning any goroutine that reads
//     (goroutine creation carries the happens-before edge), or
//   - hand the proof value itself to readers through a channel, mutex, or
//     other synchronized handoff; the handoff that publishes the proof
//     also publishes the write.
//
// Reading a cell before it is written, writing it twice through the raw
// Set escape hatch, or violating the happens-before requirement are
// undocumented-behavior contract violations. They are deliberately not
// detected: detection would put a check on the read path, which is the
// cost this package exists to remove.
//
// # Non-Goals
//
// This is not a lazy-initialization library: nothing initializes on first
// access (use sync.OnceValue for that). There is no re-initialization and
// no teardown; a cell transitions from empty to initialized exactly once
// per process and stays there.
package once
