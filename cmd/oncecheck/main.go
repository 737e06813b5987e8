// Package main implements the oncecheck CLI tool.
//
// oncecheck is the build-time half of the staticonce exactly-once
// contract. The runtime package guards duplicate initialization with a
// one-shot CAS that panics; oncecheck catches the same mistakes before
// the program ever runs by scanning source for sanctioned-initialization
// call sites (once.Init, once.Bind) and reporting:
//
//   - any storage cell claimed from more than one compiled call site
//   - claims inside loops (a single call site reached repeatedly)
//   - in strict mode, claims outside main/init
//
// Usage:
//
//	oncecheck check ./...          # scan the current module
//	oncecheck check --strict ./... # also flag claims outside main/init
//	oncecheck init                 # write an example .oncecheck.yaml
//	oncecheck version              # show version information
//
// Run it the way you would run go vet, in CI or a pre-commit hook.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
