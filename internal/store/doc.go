// Package store defines the persistence contracts for the training aggregates
// and the transaction plumbing shared by every implementation.
//
// Each aggregate store saves, loads and deletes a whole tree: a plan's store
// cascades to its sessions, which cascade to their groups, which cascade to
// their applied exercises. A store is bound either to a connection pool or to
// an open transaction (see WithTx); a pool-bound store opens exactly one
// transaction per call and runs the entire cascade inside it.
package store
