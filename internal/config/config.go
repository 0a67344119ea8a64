// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// EnvPrefix is prepended to every option name to form its environment
// variable (e.g. --auth-url reads SWIFTLY_AUTH_URL).
const EnvPrefix = "SWIFTLY_"

// Documented defaults applied when neither a flag nor an environment variable
// supplies a value.
const (
	DefaultRetries        = 4
	DefaultConcurrency    = 1
	DefaultUser           = "user"
	DefaultDirectEndpoint = "http://127.0.0.1:8080"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = LogFormatConsole
)

// Structured log renderings.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// BackendMode is the tri-state choice of concurrency backend.
type BackendMode int

const (
	// BackendAuto lets the runtime selector probe for the cooperative backend.
	BackendAuto BackendMode = iota
	// BackendOn forces the cooperative backend (--eventlet).
	BackendOn
	// BackendOff forces the native blocking backend (--no-eventlet).
	BackendOff
)

// String returns a human-readable label for the mode.
func (m BackendMode) String() string {
	switch m {
	case BackendOn:
		return "on"
	case BackendOff:
		return "off"
	default:
		return "auto"
	}
}

// RunConfig is the fully resolved configuration of a single invocation.
// It is produced once by [Resolve] and treated as immutable afterwards.
type RunConfig struct {
	// AuthURL is the auth endpoint, e.g. http://127.0.0.1:8080/auth/v1.0.
	// Env: SWIFTLY_AUTH_URL
	AuthURL string

	// AuthUser is the auth user name, e.g. test:tester.
	// Env: SWIFTLY_AUTH_USER
	AuthUser string

	// AuthKey is the auth key or password.
	// Env: SWIFTLY_AUTH_KEY
	AuthKey string

	// AuthTenant is the tenant name; auth falls back to AuthUser when empty.
	// Env: SWIFTLY_AUTH_TENANT
	AuthTenant string

	// AuthMethods is the ordered list of auth methods to try.
	// Env: SWIFTLY_AUTH_METHODS (comma separated)
	AuthMethods []string

	// Region selects an endpoint from the auth service catalog.
	// Env: SWIFTLY_REGION
	Region string

	// Direct is the account path used by the direct transport, e.g.
	// /v1/AUTH_test. When set, the proxied auth fields are ignored.
	// Env: SWIFTLY_DIRECT
	Direct string

	// DirectEndpoint is the backend address the direct transport talks to.
	// Env: SWIFTLY_DIRECT_ENDPOINT
	DirectEndpoint string

	// Proxy is an HTTP proxy URL for all requests.
	// Env: SWIFTLY_PROXY
	Proxy string

	// SNet prepends "snet-" to the storage URL host name.
	// Env: SWIFTLY_SNET
	SNet bool

	// Retries is how many times a request is retried on a server error.
	// Env: SWIFTLY_RETRIES
	Retries int

	// CacheAuth enables the on-disk auth cache in the OS temp directory.
	// Env: SWIFTLY_CACHE_AUTH
	CacheAuth bool

	// CDN directs requests to the CDN management interface.
	// Env: SWIFTLY_CDN
	CDN bool

	// Concurrency is the number of actions that may run simultaneously.
	// Env: SWIFTLY_CONCURRENCY
	Concurrency int

	// Backend is the concurrency backend override.
	// Env: SWIFTLY_EVENTLET / SWIFTLY_NO_EVENTLET
	Backend BackendMode

	// Verbosity is 0 (quiet) or 1 (verbose).
	// Env: SWIFTLY_VERBOSE
	Verbosity int

	// User names the auth cache file.
	// Env: USER
	User string

	// LogLevel is the zerolog level of the structured stderr log.
	// Env: SWIFTLY_LOG_LEVEL
	LogLevel string

	// LogFormat is "console" (human-readable) or "json".
	// Env: SWIFTLY_LOG_FORMAT
	LogFormat string
}

// Invocation is the result of resolving one argument vector.
type Invocation struct {
	// Config is the resolved configuration.
	Config RunConfig

	// MainArgs are the arguments consumed before the subcommand name.
	MainArgs []string

	// Args starts with the subcommand name, followed by its untouched
	// arguments. Empty when no subcommand was given.
	Args []string
}
