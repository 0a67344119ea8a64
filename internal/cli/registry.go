// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-swiftly/internal/command"
)

// aliases maps reserved words to the command they stand for.
var aliases = map[string]string{
	"for": "fordo",
}

// Registry is the static command table. It is read-only after NewRegistry.
type Registry struct {
	commands map[string]command.Command
	names    []string
}

// NewRegistry indexes cmds by name. A duplicate or empty name, or a name
// shadowed by an alias, is a programming error and panics.
func NewRegistry(cmds []command.Command) *Registry {
	r := &Registry{commands: make(map[string]command.Command, len(cmds))}
	for _, cmd := range cmds {
		name := cmd.Name()
		if name == "" {
			panic(fmt.Sprintf("command %T has no name", cmd))
		}
		if _, ok := r.commands[name]; ok {
			panic(fmt.Sprintf("duplicate command %q", name))
		}
		if _, ok := aliases[name]; ok {
			panic(fmt.Sprintf("command %q is shadowed by an alias", name))
		}
		r.commands[name] = cmd
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Lookup resolves aliases, then finds the command.
func (r *Registry) Lookup(name string) (command.Command, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the command names in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
