// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AuthInfo is what a transport client knows after authenticating. It is
// also the on-disk format of the auth cache.
type AuthInfo struct {
	// StorageURL is the account URL all storage requests are made against.
	StorageURL string `json:"storage_url"`

	// CDNURL is the CDN management URL, when the auth service provides one.
	CDNURL string `json:"cdn_url,omitempty"`

	// AuthToken is sent as X-Auth-Token. Empty for the direct transport.
	AuthToken string `json:"auth_token,omitempty"`

	// DirectPath is the account path used by the direct transport.
	DirectPath string `json:"-"`
}

// IsZero reports whether no storage URL is known yet.
func (a AuthInfo) IsZero() bool {
	return a.StorageURL == ""
}
