// Package core contains the functional core of the lending service:
// the Book, User and Loan entities with their construction invariants,
// the Loan lifecycle state machine, the reading-pace policy, the
// analytics aggregations over the loan ledger, and the error taxonomy
// shared by all layers.
//
// Everything in this package is pure: no I/O, no clocks, no logging.
// Infrastructure concerns live in the shell and storage packages.
package core
