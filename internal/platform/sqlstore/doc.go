// Package sqlstore implements the store interfaces on database/sql. The same
// SQL runs on PostgreSQL (through the pgx stdlib driver) and on SQLite
// (through modernc.org/sqlite), so the schema sticks to portable types: times
// are BIGINT epoch milliseconds and child id lists are JSON text.
//
// Each repository receives the repositories of the entities it owns through
// its constructor. A repository bound to a *sql.DB opens one transaction per
// Save or Delete and rebinds its children to it with WithTx; a repository
// already bound to a *sql.Tx runs on it directly.
package sqlstore
