// Package ledger implements the per-student fee ledger: semester records, payment
// distribution, aggregate due reconciliation, annual fee assignment and the
// promotion state machine. It performs no I/O; callers load an Account, mutate it
// in memory and persist it as a unit.
package ledger
