// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-swiftly/internal/backend"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/commands"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCommand: тестовая команда с настраиваемым поведением
type stubCommand struct {
	name     string
	synopsis string
	summary  string
	more     []string
	run      func(ctx context.Context, cc *command.Context, args []string) error
}

func (s stubCommand) Name() string { return s.name }

func (s stubCommand) Usage() command.Usage {
	synopsis := s.synopsis
	if synopsis == "" {
		synopsis = s.name + " [options]"
	}
	description := append([]string{s.summary + " Runs " + s.name + "."}, s.more...)
	return command.Usage{Synopsis: synopsis, Description: description}
}

func (s stubCommand) Run(ctx context.Context, cc *command.Context, args []string) error {
	if s.run == nil {
		return nil
	}
	return s.run(ctx, cc, args)
}

type harness struct {
	cli    *CLI
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, environ map[string]string, cmds ...command.Command) *harness {
	t.Helper()
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.cli = New(Options{
		Stdin:     strings.NewReader(""),
		Stdout:    h.stdout,
		Stderr:    h.stderr,
		Environ:   environ,
		TempDir:   t.TempDir(),
		Commands:  cmds,
		BuildInfo: models.NewAppBuildInfo("1.2.3", "2026-01-01", "abc123"),
		Probe:     backend.ProbeFunc(func() (string, bool) { return "", false }),
	})
	return h
}

func (h *harness) run(args ...string) int {
	return h.cli.Run(context.Background(), args)
}

func TestRun_NoArgumentsPrintsHelp(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get"})

	code := h.run()

	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(h.stdout.String(), "Usage: swiftly [options] <command>"))
	assert.Contains(t, h.stdout.String(), "Commands:\n  get [options]")
	assert.Empty(t, h.stderr.String())
}

func TestRun_HelpAndVersion(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get"})

	assert.Equal(t, 1, h.run("--help"))
	assert.Contains(t, h.stdout.String(), "--auth-url")

	h.stdout.Reset()
	assert.Equal(t, 1, h.run("--version"))
	assert.Equal(t, "swiftly 1.2.3 (date: 2026-01-01, commit: abc123)\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestRun_ParseErrorPrintsUsage(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get"})

	code := h.run("--retries", "many", "get")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), usageLine)
	assert.Contains(t, h.stderr.String(), "swiftly: error: invalid arguments")
}

func TestRun_ForAliasDispatchesToFordo(t *testing.T) {
	var calls [][]string
	fordo := stubCommand{name: "fordo", run: func(_ context.Context, _ *command.Context, args []string) error {
		calls = append(calls, args)
		return nil
	}}
	h := newHarness(t, nil, fordo)

	require.Equal(t, 0, h.run("for", "container", "do", "delete", "<item>"))
	require.Equal(t, 0, h.run("fordo", "container", "do", "delete", "<item>"))

	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get"})

	code := h.run("bogus")

	assert.Equal(t, 1, code)
	assert.Equal(t, "ERROR unknown command 'bogus'\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())
}

func TestRun_SignaledFailure(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get", run: func(context.Context, *command.Context, []string) error {
		return &command.Error{Message: "no such container", Code: 4}
	}})

	code := h.run("get", "c")

	assert.Equal(t, 4, code)
	assert.Equal(t, "ERROR no such container\n", h.stderr.String())
}

func TestRun_SignaledFailureDefaults(t *testing.T) {
	h := newHarness(t, nil,
		stubCommand{name: "zero", run: func(context.Context, *command.Context, []string) error {
			return fmt.Errorf("wrapped: %w", &command.Error{Message: "bad thing"})
		}},
		stubCommand{name: "silent", run: func(context.Context, *command.Context, []string) error {
			return command.Silent(3)
		}},
	)

	assert.Equal(t, 1, h.run("zero"))
	assert.Equal(t, "ERROR bad thing\n", h.stderr.String())

	h.stderr.Reset()
	assert.Equal(t, 3, h.run("silent"))
	assert.Empty(t, h.stderr.String())
}

func TestRun_UnsignaledFailurePrintsTrace(t *testing.T) {
	cause := errors.New("connection reset")
	h := newHarness(t, nil, stubCommand{name: "get", run: func(context.Context, *command.Context, []string) error {
		return fmt.Errorf("download c/o: %w", cause)
	}})

	code := h.run("get", "c/o")

	assert.Equal(t, 1, code)
	trace := h.stderr.String()
	assert.NotEmpty(t, trace)
	assert.NotContains(t, trace, "ERROR ")
	assert.Contains(t, trace, "*fmt.wrapError: download c/o: connection reset")
	assert.Contains(t, trace, "*errors.errorString: connection reset")
}

func TestRun_PanicIsRecovered(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get", run: func(context.Context, *command.Context, []string) error {
		panic("kaboom")
	}})

	code := h.run("get")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "panic: kaboom")
	assert.Contains(t, h.stderr.String(), "goroutine")
}

func TestRun_VerboseFormatMismatchIsUnsignaled(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get", run: func(_ context.Context, cc *command.Context, _ []string) error {
		format := "%d items"
		cc.Verbosef(format, "many")
		return nil
	}})

	code := h.run("-v", "get")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "verbose message format mismatch")
	assert.Contains(t, h.stderr.String(), `"%d items"`)
}

func TestRun_VerboseObjectNameWithFormatMarkers(t *testing.T) {
	h := newHarness(t, nil, stubCommand{name: "get", run: func(_ context.Context, cc *command.Context, args []string) error {
		cc.Verbosef("Downloading %s", args[0])
		return nil
	}})

	code := h.run("-v", "get", "c/report%!d(2024).txt")

	assert.Equal(t, 0, code)
	assert.Regexp(t, `^VERBOSE \d+\.\d{2} Downloading c/report%!d\(2024\)\.txt\n$`, h.stderr.String())
}

var verboseLine = regexp.MustCompile(`^VERBOSE \d+\.\d{2} .+$`)

func TestRun_Verbose(t *testing.T) {
	chatty := stubCommand{name: "get", run: func(_ context.Context, cc *command.Context, _ []string) error {
		for i := 0; i < 5; i++ {
			cc.Verbosef("step %d of %d", i+1, 5)
		}
		return nil
	}}

	t.Run("enabled", func(t *testing.T) {
		h := newHarness(t, nil, chatty)
		require.Equal(t, 0, h.run("-v", "get"))

		lines := strings.Split(strings.TrimSuffix(h.stderr.String(), "\n"), "\n")
		require.Len(t, lines, 5)
		for _, line := range lines {
			assert.Regexp(t, verboseLine, line)
		}
		assert.True(t, strings.HasSuffix(lines[4], " step 5 of 5"))
	})

	t.Run("enabled from env", func(t *testing.T) {
		h := newHarness(t, map[string]string{"SWIFTLY_VERBOSE": "true"}, chatty)
		require.Equal(t, 0, h.run("get"))
		assert.Equal(t, 5, strings.Count(h.stderr.String(), "VERBOSE "))
	})

	t.Run("disabled", func(t *testing.T) {
		h := newHarness(t, nil, chatty)
		require.Equal(t, 0, h.run("get"))
		assert.Empty(t, h.stderr.String())
		assert.Empty(t, h.stdout.String())
	})
}

func TestRun_VerboseElapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var stderr bytes.Buffer
	c := New(Options{
		Stdout:   &bytes.Buffer{},
		Stderr:   &stderr,
		TempDir:  t.TempDir(),
		Commands: []command.Command{stubCommand{name: "get", run: func(_ context.Context, cc *command.Context, _ []string) error {
			assert.Equal(t, start, cc.Begin)
			cc.Verbosef("hello")
			return nil
		}}},
		Now: func() time.Time { return start },
	})

	require.Equal(t, 0, c.Run(context.Background(), []string{"-v", "get"}))
	assert.Regexp(t, `^VERBOSE \d+\.\d{2} hello\n$`, stderr.String())
}

func TestRun_ContextContents(t *testing.T) {
	var got *command.Context
	h := newHarness(t, map[string]string{"SWIFTLY_CONCURRENCY": "3"}, stubCommand{name: "get", run: func(_ context.Context, cc *command.Context, args []string) error {
		got = cc
		assert.Equal(t, []string{"-x", "c"}, args)
		return nil
	}})

	require.Equal(t, 0, h.run("--eventlet", "-R", "2", "get", "-x", "c"))

	require.NotNil(t, got)
	assert.Equal(t, []string{"--eventlet", "-R", "2", "get", "-x", "c"}, got.OriginalArgs)
	assert.Equal(t, []string{"--eventlet", "-R", "2"}, got.OriginalMainArgs)
	assert.Equal(t, 2, got.Config.Retries)
	assert.True(t, got.Cooperative)
	assert.Equal(t, 3, got.Pool.Limit())
	assert.IsType(t, backend.CooperativeRunner{}, got.Runner)
	assert.Nil(t, got.Verbose)
	assert.NotNil(t, got.Clients)
	assert.NotNil(t, got.Dispatch)
}

func TestRun_BlockingBackend(t *testing.T) {
	var got *command.Context
	h := newHarness(t, map[string]string{"SWIFTLY_CONCURRENCY": "3"}, stubCommand{name: "get", run: func(_ context.Context, cc *command.Context, _ []string) error {
		got = cc
		return nil
	}})

	require.Equal(t, 0, h.run("get"))

	assert.False(t, got.Cooperative)
	assert.Equal(t, 1, got.Pool.Limit())
	assert.IsType(t, backend.BlockingRunner{}, got.Runner)
}

func TestRun_DirectModeIgnoresAuthFields(t *testing.T) {
	var authHits atomic.Int32
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer authSrv.Close()

	var seenPath, seenToken string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		seenToken = r.Header.Get("X-Auth-Token")
		w.Header().Set("X-Account-Object-Count", "7")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer storage.Close()

	environ := map[string]string{
		"SWIFTLY_AUTH_URL":        authSrv.URL + "/auth/v1.0",
		"SWIFTLY_AUTH_USER":       "test:tester",
		"SWIFTLY_AUTH_KEY":        "testing",
		"SWIFTLY_AUTH_TENANT":     "test",
		"SWIFTLY_DIRECT_ENDPOINT": storage.URL,
	}
	h := newHarness(t, environ, commands.All()...)

	require.Equal(t, 0, h.run("-D", "/v1/AUTH_test", "-R", "0", "auth"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), "Direct Storage Path: /v1/AUTH_test")
	assert.NotContains(t, h.stdout.String(), "Auth Token")

	h.stdout.Reset()
	require.Equal(t, 0, h.run("-D", "/v1/AUTH_test", "-R", "0", "head"), h.stderr.String())
	assert.Regexp(t, `(?m)^X-Account-Object-Count:\s+7$`, h.stdout.String())
	assert.Equal(t, "/v1/AUTH_test", seenPath)
	assert.Empty(t, seenToken)

	assert.Equal(t, int32(0), authHits.Load())
}

func TestRun_HelpCommand(t *testing.T) {
	h := newHarness(t, nil, commands.All()...)

	require.Equal(t, 0, h.run("help"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), usageLine))

	h.stdout.Reset()
	require.Equal(t, 0, h.run("help", "for"))
	assert.Contains(t, h.stdout.String(), "Usage: swiftly [main_options] fordo")

	h.stdout.Reset()
	assert.Equal(t, 1, h.run("help", "bogus"))
	assert.Equal(t, "ERROR unknown command 'bogus'\n", h.stderr.String())
}

func TestRun_ConcurrentDispatch(t *testing.T) {
	var runs atomic.Int32
	h := newHarness(t, nil,
		stubCommand{name: "leaf", run: func(context.Context, *command.Context, []string) error {
			runs.Add(1)
			return nil
		}},
		stubCommand{name: "fan", run: func(ctx context.Context, cc *command.Context, _ []string) error {
			g := cc.Pool.Group(ctx)
			for i := 0; i < 10; i++ {
				g.Go(func(ctx context.Context) error {
					if code := cc.Dispatch(ctx, append(slices.Clone(cc.OriginalMainArgs), "leaf")); code != 0 {
						return fmt.Errorf("leaf exited %d", code)
					}
					return nil
				})
			}
			return g.Wait()
		}},
	)

	require.Equal(t, 0, h.run("--eventlet", "--concurrency", "4", "fan"))
	assert.Equal(t, int32(10), runs.Load())
}

func TestRun_StructuredLog(t *testing.T) {
	h := newHarness(t, map[string]string{
		"SWIFTLY_LOG_LEVEL":  "debug",
		"SWIFTLY_LOG_FORMAT": "json",
	}, stubCommand{name: "get"})

	require.Equal(t, 0, h.run("get"))

	assert.Contains(t, h.stderr.String(), `"command":"get"`)
	assert.Contains(t, h.stderr.String(), `"message":"dispatching"`)
	assert.Contains(t, h.stderr.String(), `"role":"swiftly"`)
	assert.Empty(t, h.stdout.String())
}
