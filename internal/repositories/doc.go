// Package repositories implements SQLite persistence for the conversion history.
//
// [RunRepository] implements [models.Repository] for [models.Run]. A run and its per-track rows are
// written in one transaction and deleted together through the run_matches foreign key.
//
// The history is an audit log. Nothing reads it back to decide what a new conversion does.
package repositories
