/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package timestamp formats and parses the timestamps used in WARC headers.
//
// WARC-Date is UTC ISO-8601 with one-second resolution and a trailing "Z"
// (e.g. "2024-01-02T03:04:05Z"); the 14-digit form is used by some callers
// for compact filenames and sort keys.
package timestamp

import (
	"time"
)

const iso8601 = "2006-01-02T15:04:05Z"
const layout14 = "20060102150405"

// To14 converts an ISO-8601 timestamp to its compact 14-digit form.
func To14(s string) (string, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(layout14), nil
}

// From14ToTime parses a compact 14-digit timestamp.
func From14ToTime(s string) (time.Time, error) {
	return time.Parse(layout14, s)
}

// UTC returns t converted to UTC with sub-second precision dropped, matching
// the resolution WARC-Date is written at.
func UTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// UTC14 formats t as a compact 14-digit UTC timestamp.
func UTC14(t time.Time) string {
	return t.UTC().Format(layout14)
}

// UTCW3cIso8601 formats t as the WARC-Date string: UTC, one-second
// resolution, trailing "Z".
func UTCW3cIso8601(t time.Time) string {
	return t.UTC().Format(iso8601)
}

// ParseW3cIso8601 parses a WARC-Date value. It accepts the canonical
// "...Z" form as well as full RFC3339 with a numeric offset, for leniency
// when reading records written by other implementations.
func ParseW3cIso8601(s string) (time.Time, error) {
	if t, err := time.Parse(iso8601, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Now returns the current time truncated to one-second resolution in UTC.
func Now() time.Time {
	return UTC(time.Now())
}
