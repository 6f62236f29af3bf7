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

//go:build unix

package cmd

import "golang.org/x/sys/unix"

func isElevated() bool {
	return unix.Geteuid() == 0
}
