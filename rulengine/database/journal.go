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

package database

import "time"

const createSightingTable = `CREATE TABLE IF NOT EXISTS
	Threat (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"seen" TIMESTAMP NOT NULL,
		"pid" integer NOT NULL,
		"name" TEXT NOT NULL,
		"exe" TEXT NOT NULL,
		"techniques" TEXT NOT NULL,
		"danger" integer DEFAULT 0
	  );`

const createActionTable = `CREATE TABLE IF NOT EXISTS
	Quarantine (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"operation" TEXT NOT NULL,
		"at" TIMESTAMP NOT NULL,
		"action" TEXT NOT NULL,
		"location" TEXT NOT NULL,
		"name" TEXT NOT NULL,
		"path" TEXT NOT NULL,
		"status" TEXT NOT NULL,
		"error" TEXT DEFAULT ''
	  );`

// Sighting is a flagged process, recorded the first time it's seen.
type Sighting struct {
	ID         int64     `db:"id"`
	Seen       time.Time `db:"seen"`
	Pid        int32     `db:"pid"`
	Name       string    `db:"name"`
	Exe        string    `db:"exe"`
	Techniques string    `db:"techniques"`
	Danger     int       `db:"danger"`
}

// Action is the outcome of a single freeze or restore item.
type Action struct {
	ID        int64     `db:"id"`
	Operation string    `db:"operation"`
	At        time.Time `db:"at"`
	Action    string    `db:"action"`
	Location  string    `db:"location"`
	Name      string    `db:"name"`
	Path      string    `db:"path"`
	Status    string    `db:"status"`
	Error     string    `db:"error"`
}

// InsertSighting Creates a new entry for the given flagged process.
func (j *Journal) InsertSighting(s Sighting) error {
	if j == nil {
		return nil
	}

	insert := `INSERT INTO Threat(seen, pid, name, exe, techniques, danger)
		VALUES (:seen, :pid, :name, :exe, :techniques, :danger)`

	_, err := j.db.NamedExec(insert, s)
	return err
}

// InsertAction Creates a new entry for a quarantine item result.
func (j *Journal) InsertAction(a Action) error {
	if j == nil {
		return nil
	}

	insert := `INSERT INTO Quarantine(operation, at, action, location, name, path, status, error)
		VALUES (:operation, :at, :action, :location, :name, :path, :status, :error)`

	_, err := j.db.NamedExec(insert, a)
	return err
}

// Sightings returns the most recent sightings first.
func (j *Journal) Sightings(limit int) ([]Sighting, error) {
	if j == nil {
		return nil, nil
	}

	var out []Sighting
	err := j.db.Select(&out, `SELECT * FROM Threat ORDER BY id DESC LIMIT ?`, limit)
	return out, err
}

// Actions returns every item recorded for the given operation, in order.
func (j *Journal) Actions(operation string) ([]Action, error) {
	if j == nil {
		return nil, nil
	}

	var out []Action
	err := j.db.Select(&out, `SELECT * FROM Quarantine WHERE operation=? ORDER BY id`, operation)
	return out, err
}
