// Package invoices provides the persistence layer for issued documents.
//
// # Data Model
//
// Every invoice is stored as a JSON document in the doc column, with the
// fields used for lookups and ordering (series, number, type, date,
// client_id, status) copied into indexed columns. The document is the
// source of truth and is what Get and List decode.
//
// A (series, number) pair is unique; Add fails with a *common.StoreError
// when a number is reused.
//
// # Concurrency
//
// The repository holds no state of its own. Build it over a *sql.Tx
// (dbx.DBTX) to group several writes atomically.
//
// Typical Usage
//
//	repo := invoices.NewSQLiteRepository(db)
//	next, _ := repo.MaxNumber(ctx, "2025A")
//	inv.Number = next + 1
//	_ = repo.Add(ctx, inv)
package invoices
