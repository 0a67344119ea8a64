// Package utils provides general-purpose helper utilities used by the
// transport layer and the subcommands: a preconfigured resty HTTP client,
// request identifiers, and keyed hashing for temporary URL signatures.
package utils
