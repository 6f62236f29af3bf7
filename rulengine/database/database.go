// Copyright (C) 2020-2021,  0xN3utr0n

// Sintax is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Sintax is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.

// You should have received a copy of the GNU General Public License
// along with Sintax. If not, see <http://www.gnu.org/licenses/>.

// Package database keeps an append-only journal of threat sightings and
// quarantine actions. Restore never reads it; the backup file is the
// only source of truth for that.
package database

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Sql driver
)

// Journal is safe to use as a nil pointer, in which case nothing is recorded.
type Journal struct {
	db *sqlx.DB
}

// Open Creates and opens the journal database.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Added due to connection error
	// ref: https://github.com/mattn/go-sqlite3/issues/204
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return j, nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// TableExists Checks whether the specified table exists or not.
func (j *Journal) TableExists(name string) bool {
	exists := `SELECT name FROM sqlite_master WHERE
				type='table' AND name=?`

	var found []string
	if err := j.db.Select(&found, exists, name); err != nil {
		return false
	}

	return len(found) > 0
}

func (j *Journal) createTables() error {
	for _, create := range []string{createSightingTable, createActionTable} {
		if _, err := j.db.Exec(create); err != nil {
			return err
		}
	}
	return nil
}
