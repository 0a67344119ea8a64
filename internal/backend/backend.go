// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package backend decides how a swiftly invocation runs: whether nested
// actions fan out on the cooperative (goroutine pool) backend or run one at a
// time, whether requests use the direct or proxied transport, and which
// subprocess runner collaborators receive.
package backend

import (
	"runtime"
	"strings"

	"github.com/MKhiriev/go-swiftly/internal/config"
	"github.com/Masterminds/semver/v3"
)

// DefaultMinVersion is the oldest cooperative runtime accepted when the
// backend is auto-detected.
const DefaultMinVersion = "1.21.0"

// Probe reports whether the cooperative runtime is available and its
// version. It runs once per invocation, only in auto mode.
type Probe interface {
	Detect() (version string, ok bool)
}

// ProbeFunc adapts a plain function to [Probe].
type ProbeFunc func() (string, bool)

// Detect implements [Probe].
func (f ProbeFunc) Detect() (string, bool) {
	return f()
}

// GoRuntimeProbe reports the Go scheduler as the cooperative runtime, with
// the toolchain version as its version (go1.26.0 → 1.26.0).
var GoRuntimeProbe = ProbeFunc(func() (string, bool) {
	v := strings.TrimPrefix(runtime.Version(), "go")
	return v, v != ""
})

// Policy is the auto-detection rule for the cooperative backend.
type Policy struct {
	// MinVersion is the lowest acceptable runtime version (semver).
	MinVersion string
}

// DefaultPolicy accepts any runtime at or above [DefaultMinVersion].
var DefaultPolicy = Policy{MinVersion: DefaultMinVersion}

// Allows reports whether version satisfies the policy. Unparseable versions
// are rejected.
func (p Policy) Allows(version string) bool {
	minVersion := p.MinVersion
	if minVersion == "" {
		minVersion = DefaultMinVersion
	}

	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}

	return constraint.Check(v)
}

// Selection is the outcome of [Select].
type Selection struct {
	// Cooperative is true when nested actions may run concurrently.
	Cooperative bool

	// Direct is true when the direct transport must be used.
	Direct bool

	// Runner is the subprocess facility matching the backend.
	Runner Runner

	// PoolLimit is the effective concurrency for nested actions: the
	// configured concurrency on the cooperative backend, one otherwise.
	PoolLimit int
}

// Select derives the runtime mode from cfg. The probe is consulted only when
// cfg.Backend is [config.BackendAuto]; a nil probe counts as unavailable.
func Select(cfg config.RunConfig, probe Probe, policy Policy) Selection {
	cooperative := false
	switch cfg.Backend {
	case config.BackendOn:
		cooperative = true
	case config.BackendOff:
		cooperative = false
	default:
		if probe != nil {
			if version, ok := probe.Detect(); ok {
				cooperative = policy.Allows(version)
			}
		}
	}

	sel := Selection{
		Cooperative: cooperative,
		Direct:      cfg.UsesDirect(),
		Runner:      BlockingRunner{},
		PoolLimit:   1,
	}
	if cooperative {
		sel.Runner = CooperativeRunner{}
		sel.PoolLimit = max(cfg.Concurrency, 1)
	}

	return sel
}
