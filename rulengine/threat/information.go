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

type information struct {
	description string
	ioc         string
}

const (
	Cryptominer       = "Cryptominer"
	ProcessSpoofing   = "System Process Spoofing"
	SuspiciousPath    = "Suspicious Location"
	HiddenResourceHog = "Hidden Resource Hog"
	TempAutostart     = "Temp Autostart"
	GenericAutostart  = "Generic Persistence Name"
)

var threats = map[string]information{
	Cryptominer: information{
		description: "Process name or image matches a known cryptocurrency mining tool.",
		ioc:         "Executable File",
	},
	ProcessSpoofing: information{
		description: "Process borrows the name of a core Windows process but runs from outside the system directories.",
		ioc:         "Executable File",
	},
	SuspiciousPath: information{
		description: "Executable runs from a user-writable temporary or roaming profile directory.",
		ioc:         "Executable File",
	},
	HiddenResourceHog: information{
		description: "Process consumes a large share of CPU or memory while owning no visible window.",
		ioc:         "Process ID",
	},
	TempAutostart: information{
		description: "Autostart entry launches a program stored in a temporary directory.",
		ioc:         "Autostart Target",
	},
	GenericAutostart: information{
		description: "Autostart entry uses a generic updater/helper style name and points outside trusted installation directories.",
		ioc:         "Autostart Target",
	},
}
