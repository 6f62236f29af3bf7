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

package threat

import (
	"github.com/0xN3utr0n/Sintax/logger"
	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"github.com/0xN3utr0n/Sintax/rulengine/task"
	"github.com/rs/zerolog"
)

// LogProcess emits one threat event per finding of the given task.
func LogProcess(log *logger.Logger, t *task.Task, findings []Finding) {
	for _, f := range findings {
		ioc := t.Exe
		if f.Technique == HiddenResourceHog || ioc == "" {
			ioc = t.Name
		}

		logThreat(log.Info("RuleEngine"), f, ioc).
			Dict("Current", zerolog.Dict().
				Int32("Pid", t.Pid).
				Str("Comm", t.Name).
				Str("User", t.Username)).
			Send()
	}
}

// LogEntry emits one threat event per finding of the given autostart entry.
func LogEntry(log *logger.Logger, e *autorun.Entry, findings []Finding) {
	for _, f := range findings {
		logThreat(log.Info("Scanner"), f, e.Path).
			Dict("Entry", zerolog.Dict().
				Str("Name", e.Name).
				Str("Location", string(e.Location)).
				Str("Kind", string(e.Kind))).
			Send()
	}
}

func logThreat(event *zerolog.Event, f Finding, ioc string) *zerolog.Event {
	event = event.Str("Type", "Threat").
		Dict("Threat", zerolog.Dict().
			Int("Level", f.Level).
			Str("Category", f.Category).
			Str("Technique", f.Technique).
			Str("Description", f.Description()))

	if len(ioc) > 0 {
		// Indicator of compromise
		event = event.Dict("IOC", zerolog.Dict().
			Str("Type", f.IOC()).
			Str("Value", ioc))
	}

	return event
}
