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

// RecordType is a bitmask tag identifying the WARC-Type of a record. Each
// recognised type occupies a distinct bit so a single integer-AND performs
// subset filtering across a whole archive (see ArchiveIterator).
type RecordType uint16

const (
	// NoType never appears on a real record; it is useful as a filter
	// value meaning "match nothing".
	NoType RecordType = 0

	Warcinfo RecordType = 1 << iota
	Response
	Resource
	Request
	Metadata
	Revisit
	Conversion
	Continuation
	Unknown

	// AnyType matches every recognised RecordType plus Unknown; it is a
	// sentinel for filters, not a value any real record carries.
	AnyType RecordType = 0xFFFF
)

var recordTypeNames = map[RecordType]string{
	Warcinfo:     "warcinfo",
	Response:     "response",
	Resource:     "resource",
	Request:      "request",
	Metadata:     "metadata",
	Revisit:      "revisit",
	Conversion:   "conversion",
	Continuation: "continuation",
	Unknown:      "unknown",
}

var nameToRecordType = func() map[string]RecordType {
	m := make(map[string]RecordType, len(recordTypeNames))
	for rt, name := range recordTypeNames {
		m[name] = rt
	}
	return m
}()

// String renders the canonical WARC-Type tag name, or "unknown" for the
// sentinel Unknown type and any value that isn't one of the named bits.
func (rt RecordType) String() string {
	if name, ok := recordTypeNames[rt]; ok {
		return name
	}
	return "unknown"
}

// recordTypeFromTag maps a WARC-Type header value (case-insensitive) to its
// RecordType bit. Tags not in the enumeration map to Unknown, per spec: the
// original textual tag is preserved in the record's HeaderMap regardless of
// this mapping, so a round trip through Write reproduces it verbatim.
func recordTypeFromTag(tag string) RecordType {
	if rt, ok := nameToRecordType[asciiLower(tag)]; ok {
		return rt
	}
	return Unknown
}

// asciiLower lowercases ASCII letters only; WARC field names and tag values
// are ASCII, so this avoids the overhead and locale pitfalls of
// strings.ToLower for the hot comparison path.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// Version identifies the WARC version on the status line ("WARC/1.0" or
// "WARC/1.1"). Unrecognised version tokens are preserved verbatim in Txt so
// that spec.md's "not validated beyond the WARC/ prefix" rule holds.
type Version struct {
	Txt string
}

func (v *Version) String() string {
	if v == nil {
		return "WARC/1.1"
	}
	return "WARC/" + v.Txt
}

var (
	Version1_0 = &Version{Txt: "1.0"}
	Version1_1 = &Version{Txt: "1.1"}
)
