// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ListingItem is one entry of a JSON account or container listing. Account
// listings fill Count; container listings fill Hash, ContentType and
// LastModified; delimiter listings may return Subdir-only entries.
type ListingItem struct {
	Name         string `json:"name,omitempty"`
	Subdir       string `json:"subdir,omitempty"`
	Bytes        int64  `json:"bytes"`
	Count        int64  `json:"count,omitempty"`
	Hash         string `json:"hash,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// Key returns the name used for paging (marker) and display.
func (i ListingItem) Key() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Subdir
}
