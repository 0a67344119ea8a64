// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchRecorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (d *dispatchRecorder) dispatch(_ context.Context, args []string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := strings.Join(args, " ")
	d.calls = append(d.calls, line)
	if d.fail[args[len(args)-1]] {
		return 1
	}
	return 0
}

func (d *dispatchRecorder) sorted() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := append([]string(nil), d.calls...)
	sort.Strings(out)
	return out
}

func TestFordo_Container(t *testing.T) {
	env := newTestEnv(t)
	env.swift.pageSize = 2
	for _, name := range []string{"a", "b", "dir/c"} {
		env.swift.addObject("c", name, "")
	}
	rec := &dispatchRecorder{}
	env.cc.Dispatch = rec.dispatch
	env.cc.OriginalMainArgs = []string{"-v", "--concurrency", "4"}

	require.NoError(t, env.run(fordoCommand{}, "c", "do", "delete", "<item>", "--ignore-404"))

	assert.Equal(t, []string{
		"-v --concurrency 4 delete c/a --ignore-404",
		"-v --concurrency 4 delete c/b --ignore-404",
		"-v --concurrency 4 delete c/dir/c --ignore-404",
	}, rec.sorted())
}

func TestFordo_AccountWithPrefix(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"logs-1", "logs-2", "photos"} {
		env.swift.addObject(name, "", "")
	}
	rec := &dispatchRecorder{}
	env.cc.Dispatch = rec.dispatch

	require.NoError(t, env.run(fordoCommand{}, "-p", "logs-", "/", "do", "head", "<item>"))

	assert.Equal(t, []string{"head logs-1", "head logs-2"}, rec.sorted())
}

func TestFordo_ReportsFailures(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"a", "b", "c"} {
		env.swift.addObject("c", name, "")
	}
	rec := &dispatchRecorder{fail: map[string]bool{"c/b": true}}
	env.cc.Dispatch = rec.dispatch

	err := env.run(fordoCommand{}, "c", "do", "get", "<item>")

	var cmdErr *command.Error
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "1 of 3 commands failed", cmdErr.Message)
	assert.Len(t, rec.sorted(), 3)
}

func TestFordo_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"c"},
		{"c", "get", "<item>"},
		{"c", "do"},
		{"c/o", "do", "get", "<item>"},
	} {
		env := newTestEnv(t)

		err := env.run(fordoCommand{}, args...)

		var cmdErr *command.Error
		require.ErrorAs(t, err, &cmdErr, "%v", args)
		assert.Empty(t, cmdErr.Message)
		assert.Contains(t, env.stderr.String(), "Usage: swiftly [main_options] fordo")
	}
}
