// Package errors turns runtime failures into coded diagnostics for the CLI.
//
// Every sentinel error exported by the reactive, reconcile, binding and demo
// packages maps to a registered code. FromRuntime finds the most specific
// code for an error chain:
//
//	d := errors.FromRuntime(err)
//	fmt.Fprint(os.Stderr, d.Format())
//	// ERROR R003: Cyclic dependency
//	//
//	//   node 4 (double)
//	//
//	//   A computation wrote to a signal it depends on, directly or through
//	//   a memo. The write was rejected and the previous value kept.
//	//
//	//   Hint: Move the write into an event handler or read the source
//	//   untracked.
//
// # Code ranges
//
//   - R001-R019: runtime (scopes, disposal, scheduling)
//   - R020-R029: list reconciliation
//   - R030-R039: bindings
//   - R040-R049: demo and scripts
//   - R050-R059: configuration and CLI
package errors
