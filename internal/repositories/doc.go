// Package repositories implements SQLite persistence for the transfer history.
//
// [TransferRepository] implements models.Repository[*models.TransferRecord]. Each record holds the
// per-playlist counts of one completed transfer; track mappings are never stored.
//
// The schema is created by shared.RunMigrations.
package repositories
