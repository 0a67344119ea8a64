// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/MKhiriev/go-swiftly/internal/adapter"
	"github.com/MKhiriev/go-swiftly/internal/backend"
	"github.com/MKhiriev/go-swiftly/internal/command"
	"github.com/MKhiriev/go-swiftly/internal/config"
	"github.com/MKhiriev/go-swiftly/internal/logger"
	"github.com/MKhiriev/go-swiftly/internal/workers"
	"github.com/MKhiriev/go-swiftly/models"
	"github.com/go-chi/chi/v5"
)

const (
	testAccount      = "/v1/AUTH_test"
	testLastModified = "2026-01-01T00:00:00.000000"
)

type fakeContainer struct {
	objects map[string][]byte
	meta    http.Header
}

// fakeSwift is an in-memory account served over HTTP.
type fakeSwift struct {
	mu         sync.Mutex
	containers map[string]*fakeContainer
	account    http.Header
	requests   []string

	// pageSize caps listing pages so that paging is exercised.
	pageSize int

	// lagDeletes makes that many container DELETEs answer 409 even when
	// the container is empty, like a listing that lags behind.
	lagDeletes int

	server *httptest.Server
}

func newFakeSwift(t *testing.T) *fakeSwift {
	t.Helper()

	f := &fakeSwift{
		containers: map[string]*fakeContainer{},
		account:    http.Header{},
		pageSize:   1000,
	}

	r := chi.NewRouter()
	r.HandleFunc(testAccount, f.handleAccount)
	r.HandleFunc(testAccount+"/{container}", f.handleContainer)
	r.HandleFunc(testAccount+"/{container}/*", f.handleObject)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSwift) addObject(container, name, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.containers[container]
	if !ok {
		c = &fakeContainer{objects: map[string][]byte{}, meta: http.Header{}}
		f.containers[container] = c
	}
	if name != "" {
		c.objects[name] = []byte(content)
	}
}

func (f *fakeSwift) object(container, name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.containers[container]
	if !ok {
		return "", false
	}
	body, ok := c.objects[name]
	return string(body), ok
}

func (f *fakeSwift) hasContainer(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.containers[name]
	return ok
}

func (f *fakeSwift) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, method+" ") {
			n++
		}
	}
	return n
}

func (f *fakeSwift) record(r *http.Request) {
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *fakeSwift) handleAccount(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	switch r.Method {
	case http.MethodHead:
		copyHeader(w.Header(), f.account)
		w.Header().Set("X-Account-Container-Count", strconv.Itoa(len(f.containers)))
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		mergeMeta(f.account, r.Header, "X-Account-Meta-")
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		names := make([]string, 0, len(f.containers))
		for name := range f.containers {
			names = append(names, name)
		}
		f.writeListing(w, r, names, func(name string) models.ListingItem {
			c := f.containers[name]
			var size int64
			for _, body := range c.objects {
				size += int64(len(body))
			}
			return models.ListingItem{Name: name, Count: int64(len(c.objects)), Bytes: size}
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeSwift) handleContainer(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	name := chi.URLParam(r, "container")
	c, ok := f.containers[name]

	switch r.Method {
	case http.MethodPut:
		if !ok {
			f.containers[name] = &fakeContainer{objects: map[string][]byte{}, meta: http.Header{}}
		}
		w.WriteHeader(http.StatusCreated)
		return
	}

	if !ok {
		http.Error(w, "container not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodHead:
		copyHeader(w.Header(), c.meta)
		w.Header().Set("X-Container-Object-Count", strconv.Itoa(len(c.objects)))
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		mergeMeta(c.meta, r.Header, "X-Container-Meta-")
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if len(c.objects) > 0 || f.lagDeletes > 0 {
			if f.lagDeletes > 0 {
				f.lagDeletes--
			}
			http.Error(w, "container not empty", http.StatusConflict)
			return
		}
		delete(f.containers, name)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		names := make([]string, 0, len(c.objects))
		for object := range c.objects {
			names = append(names, object)
		}
		f.writeListing(w, r, names, func(object string) models.ListingItem {
			body := c.objects[object]
			sum := md5.Sum(body)
			return models.ListingItem{
				Name:         object,
				Bytes:        int64(len(body)),
				Hash:         hex.EncodeToString(sum[:]),
				ContentType:  "application/octet-stream",
				LastModified: testLastModified,
			}
		})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeSwift) handleObject(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	c, ok := f.containers[chi.URLParam(r, "container")]
	if !ok {
		http.Error(w, "container not found", http.StatusNotFound)
		return
	}
	name := chi.URLParam(r, "*")

	if r.Method == http.MethodPut {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.objects[name] = body
		w.WriteHeader(http.StatusCreated)
		return
	}

	body, ok := c.objects[name]
	if !ok {
		http.Error(w, "object not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodHead:
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(body)
	case http.MethodDelete:
		delete(c.objects, name)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeSwift) writeListing(w http.ResponseWriter, r *http.Request, names []string, item func(string) models.ListingItem) {
	q := r.URL.Query()
	if q.Get("format") != "json" {
		http.Error(w, "only json listings", http.StatusBadRequest)
		return
	}
	prefix, delimiter := q.Get("prefix"), q.Get("delimiter")
	marker, endMarker := q.Get("marker"), q.Get("end_marker")
	limit := f.pageSize
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l < limit {
		limit = l
	}

	sort.Strings(names)
	items := []models.ListingItem{}
	lastSubdir := ""
	for _, name := range names {
		if len(items) >= limit {
			break
		}
		if name <= marker || (endMarker != "" && name >= endMarker) || !strings.HasPrefix(name, prefix) {
			continue
		}
		if delimiter != "" {
			if i := strings.Index(name[len(prefix):], delimiter); i >= 0 {
				subdir := name[:len(prefix)+i+len(delimiter)]
				if subdir != lastSubdir && subdir > marker {
					items = append(items, models.ListingItem{Subdir: subdir})
				}
				lastSubdir = subdir
				continue
			}
		}
		items = append(items, item(name))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(items)
}

func copyHeader(dst, src http.Header) {
	for name, values := range src {
		dst[name] = append([]string(nil), values...)
	}
}

func mergeMeta(dst, src http.Header, prefix string) {
	for name, values := range src {
		if strings.HasPrefix(name, prefix) {
			dst[name] = append([]string(nil), values...)
		}
	}
}

// testEnv is a command.Context wired to a fakeSwift through the direct
// transport.
type testEnv struct {
	swift  *fakeSwift
	cc     *command.Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	swift := newFakeSwift(t)
	env := &testEnv{swift: swift, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	env.cc = &command.Context{
		Config: config.RunConfig{Concurrency: 4, Direct: testAccount},
		Clients: adapter.NewDirectManager(adapter.DirectOptions{
			Path:     testAccount,
			Endpoint: swift.server.URL,
			Attempts: 1,
		}),
		Logger:   logger.Nop(),
		Stdin:    strings.NewReader(""),
		Stdout:   command.NewLockedWriter(env.stdout),
		Stderr:   command.NewLockedWriter(env.stderr),
		Runner:   backend.BlockingRunner{},
		Pool:     workers.NewPool(4),
		Environ:  map[string]string{},
		Dispatch: func(context.Context, []string) int { return 0 },
		Help:     func(string) (string, bool) { return "", false },
	}
	return env
}

func (e *testEnv) run(cmd command.Command, args ...string) error {
	return cmd.Run(context.Background(), e.cc, args)
}
