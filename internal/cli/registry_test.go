// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"strings"
	"testing"

	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(commands.All())

	for _, name := range []string{"auth", "decrypt", "delete", "encrypt", "fordo", "get", "head", "help", "ping", "post", "put", "tempurl", "trans"} {
		cmd, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, cmd.Name())
	}

	cmd, ok := r.Lookup("for")
	require.True(t, ok)
	assert.Equal(t, "fordo", cmd.Name())

	_, ok = r.Lookup("bogus")
	assert.False(t, ok)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry([]command.Command{stubCommand{name: "put"}, stubCommand{name: "auth"}, stubCommand{name: "get"}})
	assert.Equal(t, []string{"auth", "get", "put"}, r.Names())
}

func TestRegistry_PanicsOnDuplicates(t *testing.T) {
	assert.PanicsWithValue(t, `duplicate command "get"`, func() {
		NewRegistry([]command.Command{stubCommand{name: "get"}, stubCommand{name: "get"}})
	})
	assert.Panics(t, func() {
		NewRegistry([]command.Command{stubCommand{name: "for"}})
	})
	assert.Panics(t, func() {
		NewRegistry([]command.Command{stubCommand{name: ""}})
	})
}

func TestHelpComposer_Deterministic(t *testing.T) {
	h := NewHelpComposer(NewRegistry(commands.All()))

	first := h.Main()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, h.Main())
	}
	assert.Equal(t, first, NewHelpComposer(NewRegistry(commands.All())).Main())
}

func TestHelpComposer_Layout(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 12)
	r := NewRegistry([]command.Command{
		stubCommand{name: "zeta", synopsis: "zeta", summary: "Short."},
		stubCommand{name: "alpha", synopsis: "alpha [options] <path> do <command>", summary: long},
	})

	out := NewHelpComposer(r).Commands()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	assert.Equal(t, "Commands:", lines[0])
	// long synopsis gets its own line, summary starts at column 24
	assert.Equal(t, "  alpha [options] <path> do <command>", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], strings.Repeat(" ", 24)+"lorem"))
	// short synopsis is padded to 24 columns
	last := lines[len(lines)-1]
	assert.Equal(t, "  zeta"+strings.Repeat(" ", 18)+"Short. Runs zeta.", last)

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 79, line)
	}
	for _, line := range lines[2 : len(lines)-1] {
		assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", 24)), line)
	}
}

func TestHelpComposer_FirstParagraphOnly(t *testing.T) {
	r := NewRegistry([]command.Command{
		stubCommand{name: "walk", summary: "Walks.", more: []string{"Second paragraph.", "Example: swiftly walk"}},
	})

	out := NewHelpComposer(r).Commands()

	assert.Equal(t, "Commands:\n  walk [options]"+strings.Repeat(" ", 8)+"Walks. Runs walk.\n", out)

	out = NewHelpComposer(NewRegistry(commands.All())).Commands()
	assert.NotContains(t, out, "Example:")
	assert.NotContains(t, out, "swiftly for container")
}

func TestEntry_BoundaryLength(t *testing.T) {
	// "  " + 22 characters is exactly 24 wide and no longer fits in front
	synopsis := strings.Repeat("x", 22)
	assert.Equal(t, "  "+synopsis+"\n"+strings.Repeat(" ", 24)+"Summary.\n", entry(synopsis, "Summary."))

	synopsis = strings.Repeat("x", 21)
	assert.Equal(t, "  "+synopsis+" Summary.\n", entry(synopsis, "Summary."))
}
