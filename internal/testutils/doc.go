// Package testutils provides shared helpers for tests: a migrated SQLite
// database per test, an optional PostgreSQL schema per test, and builders for
// valid training aggregates.
package testutils
