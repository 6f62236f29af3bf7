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

//go:build windows

package scanner

import (
	"errors"
	"fmt"

	"github.com/0xN3utr0n/Sintax/rulengine/autorun"
	"golang.org/x/sys/windows/registry"
)

type winRegistry struct{}

// NewRegistry returns the live Windows registry.
func NewRegistry() Registry {
	return winRegistry{}
}

func root(hive autorun.Location) (registry.Key, error) {
	switch hive {
	case autorun.UserRunKey:
		return registry.CURRENT_USER, nil
	case autorun.MachineRunKey:
		return registry.LOCAL_MACHINE, nil
	}
	return 0, fmt.Errorf("%s is not a registry hive", hive)
}

func (winRegistry) Values(hive autorun.Location, path string) ([]Value, error) {
	r, err := root(hive)
	if err != nil {
		return nil, err
	}

	key, err := registry.OpenKey(r, path, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer key.Close()

	names, err := key.ReadValueNames(-1)
	if err != nil {
		return nil, err
	}

	values := make([]Value, 0, len(names))
	for _, name := range names {
		// REG_SZ and REG_EXPAND_SZ only
		data, typ, err := key.GetStringValue(name)
		if err != nil {
			continue
		}

		v := Value{Name: name, Data: data, Type: TypeString}
		if typ == registry.EXPAND_SZ {
			v.Type = TypeExpandString
		}
		values = append(values, v)
	}

	return values, nil
}

func (winRegistry) DeleteValue(hive autorun.Location, path, name string) error {
	r, err := root(hive)
	if err != nil {
		return err
	}

	key, err := registry.OpenKey(r, path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()

	return key.DeleteValue(name)
}

func (winRegistry) SetValue(hive autorun.Location, path string, v Value) error {
	r, err := root(hive)
	if err != nil {
		return err
	}

	key, _, err := registry.CreateKey(r, path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()

	if v.Type == TypeExpandString {
		return key.SetExpandStringValue(v.Name, v.Data)
	}
	return key.SetStringValue(v.Name, v.Data)
}
