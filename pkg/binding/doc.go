// Package binding connects reactive state to host-owned input fields.
//
// Controlled fields mirror a signal: the signal's value is pushed to the
// host on every flush and host edits are written back as ordinary writes.
// Uncontrolled fields keep their value in the host; the runtime reads it
// untracked through a Ref at a discrete trigger such as a submit.
//
// Writes store their value synchronously. An untracked read made after a
// controlled write in the same tick, even inside a batch that has not
// flushed yet, observes the written value. Only the push to the sink waits
// for the flush.
package binding
