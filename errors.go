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

package warc

import "fmt"

// MalformedHeaderError reports a header block the iterator could not parse:
// a missing colon, or a missing or non-numeric Content-Length. Header lines
// have no length limit, so an oversize line is not reported. The offending
// record is skipped; it is never returned to callers of ArchiveIterator.Next.
type MalformedHeaderError struct {
	msg  string
	line int
}

func newMalformedHeaderError(msg string, line int) *MalformedHeaderError {
	return &MalformedHeaderError{msg: msg, line: line}
}

func (e *MalformedHeaderError) Error() string {
	if e.line > 0 {
		return fmt.Sprintf("warc: malformed header at line %d: %s", e.line, e.msg)
	}
	return "warc: malformed header: " + e.msg
}

// UnexpectedEOFError reports a stream that ended mid-record. Iteration
// terminates; any partially constructed Record is discarded.
type UnexpectedEOFError struct {
	msg string
}

func newUnexpectedEOFError(msg string) *UnexpectedEOFError {
	return &UnexpectedEOFError{msg: msg}
}

func (e *UnexpectedEOFError) Error() string {
	return "warc: unexpected EOF: " + e.msg
}

// UsageError reports a call that violates a Record's calling contract:
// ParseHTTP on a non-HTTP record, or Write on a record with no payload
// attached. The call fails without mutating the Record's state.
type UsageError struct {
	msg string
}

func newUsageError(msg string) *UsageError {
	return &UsageError{msg: msg}
}

func (e *UsageError) Error() string {
	return "warc: usage error: " + e.msg
}
