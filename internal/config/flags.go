// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

// switches holds the flags that do not map one-to-one onto a RunConfig field.
type switches struct {
	help       bool
	version    bool
	eventlet   bool
	noEventlet bool
	verbose    bool
}

// newFlagSet binds every main option to the matching field of cfg.
//
// The current values of cfg (already resolved from the environment) become
// the flag defaults, so a flag only wins when it is passed explicitly. The
// displayed defaults are reset to the documented hard defaults so that
// secrets taken from the environment never show up in help output.
//
// Interspersed parsing is disabled: the first non-flag token ends the main
// options and everything after it belongs to the subcommand.
//
// Flags:
//
//	-h/--help, --version
//	-A/--auth-url, -U/--auth-user, -K/--auth-key, -T/--auth-tenant
//	--auth-methods, --region
//	-D/--direct, -P/--proxy, -S/--snet
//	-R/--retries, -C/--cache-auth, --cdn, --concurrency
//	--eventlet, --no-eventlet, -v/--verbose
func newFlagSet(cfg *RunConfig, sw *switches) *pflag.FlagSet {
	fs := pflag.NewFlagSet("swiftly", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.BoolVarP(&sw.help, "help", "h", false, "Shows this help text.")
	fs.BoolVar(&sw.version, "version", false, "Shows the version and exits.")
	fs.StringVarP(&cfg.AuthURL, "auth-url", "A", cfg.AuthURL,
		"URL to auth system, example: http://127.0.0.1:8080/auth/v1.0 You can also set this with the environment variable SWIFTLY_AUTH_URL.")
	fs.StringVarP(&cfg.AuthUser, "auth-user", "U", cfg.AuthUser,
		"User name for auth system, example: test:tester You can also set this with the environment variable SWIFTLY_AUTH_USER.")
	fs.StringVarP(&cfg.AuthKey, "auth-key", "K", cfg.AuthKey,
		"Key for auth system, example: testing You can also set this with the environment variable SWIFTLY_AUTH_KEY.")
	fs.StringVarP(&cfg.AuthTenant, "auth-tenant", "T", cfg.AuthTenant,
		"Tenant name for auth system, example: test You can also set this with the environment variable SWIFTLY_AUTH_TENANT. If not specified and needed, the auth user will be used.")
	fs.StringSliceVar(&cfg.AuthMethods, "auth-methods", cfg.AuthMethods,
		"Auth methods to use with the auth system, example: auth2key,auth2password,auth2password_force_tenant,auth1 You can also set this with the environment variable SWIFTLY_AUTH_METHODS.")
	fs.StringVar(&cfg.Region, "region", cfg.Region,
		"Region to use, if supported by auth, example: DFW You can also set this with the environment variable SWIFTLY_REGION. Default: default region specified by the auth response.")
	fs.StringVarP(&cfg.Direct, "direct", "D", cfg.Direct,
		"Uses direct connect method to access Swift. The PATH is the account path, example: /v1/AUTH_test You can also set this with the environment variable SWIFTLY_DIRECT.")
	fs.StringVarP(&cfg.Proxy, "proxy", "P", cfg.Proxy,
		"Uses the given proxy URL. You can also set this with the environment variable SWIFTLY_PROXY.")
	fs.BoolVarP(&cfg.SNet, "snet", "S", cfg.SNet,
		`Prepends the storage URL host name with "snet-". You can also set this with the environment variable SWIFTLY_SNET (set to "true" or "false").`)
	fs.IntVarP(&cfg.Retries, "retries", "R", cfg.Retries,
		"Indicates how many times to retry the request on a server error. You can also set this with the environment variable SWIFTLY_RETRIES.")
	fs.BoolVarP(&cfg.CacheAuth, "cache-auth", "C", cfg.CacheAuth,
		"If set true, the storage URL and auth token are cached in your OS temporary directory as <user>.swiftly for reuse. You can also set this with the environment variable SWIFTLY_CACHE_AUTH.")
	fs.BoolVar(&cfg.CDN, "cdn", cfg.CDN,
		"Directs requests to the CDN management interface. You can also set this with the environment variable SWIFTLY_CDN.")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency,
		"Sets the number of actions that can be done simultaneously when possible. You can also set this with the environment variable SWIFTLY_CONCURRENCY. Nested actions may amplify this: a directory put of segmented objects can use up to INTEGER * INTEGER concurrent actions.")
	fs.BoolVar(&sw.eventlet, "eventlet", cfg.Backend == BackendOn,
		"Enables the cooperative concurrency backend, if available.")
	fs.BoolVar(&sw.noEventlet, "no-eventlet", cfg.Backend == BackendOff,
		"Disables the cooperative concurrency backend, even if available.")
	fs.BoolVarP(&sw.verbose, "verbose", "v", cfg.Verbosity > 0,
		"Causes output to standard error indicating actions being taken. These lines are prefixed with VERBOSE and include the number of seconds elapsed since swiftly started.")

	fs.Lookup("retries").DefValue = strconv.Itoa(DefaultRetries)
	fs.Lookup("concurrency").DefValue = strconv.Itoa(DefaultConcurrency)
	for _, name := range []string{"auth-url", "auth-user", "auth-key", "auth-tenant", "region", "direct", "proxy"} {
		fs.Lookup(name).DefValue = ""
	}
	fs.Lookup("auth-methods").DefValue = "[]"
	for _, name := range []string{"snet", "cache-auth", "cdn", "eventlet", "no-eventlet", "verbose"} {
		fs.Lookup(name).DefValue = "false"
	}

	return fs
}

// FlagUsages renders the main option help block with the documented
// defaults, independent of the current environment.
func FlagUsages() string {
	cfg := &RunConfig{Retries: DefaultRetries, Concurrency: DefaultConcurrency}
	return newFlagSet(cfg, &switches{}).FlagUsagesWrapped(79)
}
