// Package once - test suite for the exactly-once initialization primitive.
//
// Coverage targets:
//  1. Value round-trip and address stability through Proof.Get
//  2. Proof copies resolving to the identical address
//  3. Duplicate-claim panics (Init/Init, Init/Bind, Bind/Bind)
//  4. The Set-then-Bind composite escape hatch
//  5. Composite values embedding proofs for other guarded types
//  6. One winner under concurrent initialization races
package once

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerA mirrors the canonical zero-field guarded type: the cell carries
// no interesting data, only an identity.
type markerA struct{}

type settings struct {
	Addr    string
	Retries int
}

func TestInitThenGet(t *testing.T) {
	cell := NewCell[settings]()

	proof := Init(cell, settings{Addr: ":8080", Retries: 3})

	got := proof.Get()
	require.NotNil(t, got)
	assert.Equal(t, settings{Addr: ":8080", Retries: 3}, *got)

	// Address must be stable across repeated calls within the same run.
	assert.Same(t, got, proof.Get())
}

func TestZeroValueCellIsReady(t *testing.T) {
	// The zero value of Cell is an empty cell; no constructor required.
	var cell Cell[int]

	proof := Init(&cell, 42)
	assert.Equal(t, 42, *proof.Get())
}

func TestProofCopiesShareAddress(t *testing.T) {
	cell := NewCell[markerA]()
	proof := Init(cell, markerA{})

	// A proof is a plain value; a copy is as good as the original.
	duplicate := proof
	assert.Same(t, proof.Get(), duplicate.Get())

	// Passing through a function parameter is just another copy.
	indirect := func(p Proof[markerA]) *markerA { return p.Get() }
	assert.Same(t, proof.Get(), indirect(proof))
}

func TestDuplicateInitPanics(t *testing.T) {
	cell := NewCell[int]()
	Init(cell, 1)

	msg := recoverFrom(t, func() { Init(cell, 2) })
	assert.Contains(t, msg, "Init: cell already initialized")
	// The panic reports where the winning claim happened.
	assert.Contains(t, msg, "once_test.go")

	// The losing claim must not have overwritten the value.
	assert.Equal(t, 1, *cell.Get())
}

func TestBindAfterInitPanics(t *testing.T) {
	cell := NewCell[markerA]()
	Init(cell, markerA{})

	msg := recoverFrom(t, func() { Bind(cell) })
	assert.Contains(t, msg, "Bind: cell already initialized")
}

func TestSetThenBind(t *testing.T) {
	cell := NewCell[settings]()

	// Raw write paired with exactly one claim.
	cell.Set(settings{Addr: ":9090"})
	proof := Bind(cell)

	assert.Equal(t, ":9090", proof.Get().Addr)
	assert.Same(t, cell.Get(), proof.Get())

	// The claim is spent; a follow-up Init must panic.
	msg := recoverFrom(t, func() { Init(cell, settings{}) })
	assert.Contains(t, msg, "already initialized")
}

// outerB embeds a proof for another guarded type, the composite scenario:
// initialize the inner cell first, embed its proof, then claim the outer
// cell around the assembled value.
type outerB struct {
	inner Proof[markerA]
}

func TestCompositeProofEmbedding(t *testing.T) {
	innerCell := NewCell[markerA]()
	outerCell := NewCell[outerB]()

	innerProof := Init(innerCell, markerA{})

	outerCell.Set(outerB{inner: innerProof})
	outerProof := Bind(outerCell)

	// The embedded proof resolves to the same address as the one obtained
	// directly at the inner init site.
	assert.Same(t, innerProof.Get(), outerProof.Get().inner.Get())
}

func TestConcurrentInitHasOneWinner(t *testing.T) {
	const goroutines = 32

	cell := NewCell[int]()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []int
		losers  int
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					losers++
					mu.Unlock()
				}
			}()
			Init(cell, id)
			mu.Lock()
			winners = append(winners, id)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1, "exactly one goroutine must win the claim")
	assert.Equal(t, goroutines-1, losers)
	assert.Equal(t, winners[0], *cell.Get())
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Guard)
}

// recoverFrom runs fn, requires that it panics, and returns the panic
// message as a string.
func recoverFrom(t *testing.T, fn func()) string {
	t.Helper()

	var msg string
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			s, ok := r.(string)
			require.True(t, ok, "panic value should be a string, got %T", r)
			msg = s
		}()
		fn()
	}()

	require.True(t, strings.HasPrefix(msg, "staticonce: "), "panic message %q missing package prefix", msg)
	return msg
}
