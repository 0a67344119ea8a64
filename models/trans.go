// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TransInfo is a decoded storage transaction id.
type TransInfo struct {
	// ID is the transaction id as given.
	ID string

	// Time is when the proxy server created the transaction.
	Time time.Time

	// Extra is the caller-supplied X-Trans-Id-Extra suffix, if any.
	Extra string
}
