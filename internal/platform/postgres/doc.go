// Package postgres implements the store interfaces on PostgreSQL.
//
// Every store takes a store.DBTX, so the same implementation runs against
// the pool or against a transaction; WithTx rebinds a store without copying
// any other state. UUID collections (watchers, assignees, recipients,
// mentions) and embedded documents (cost history, material lines, read
// receipts) are stored as jsonb so the stores stay on database/sql with the
// pgx stdlib driver, and membership queries use jsonb containment.
//
// Errors are translated at the boundary: sql.ErrNoRows and PostgreSQL
// constraint violations become the sentinel errors declared in the store
// package, so callers never import driver types.
package postgres
