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

import "io"

// IOStream is the minimal surface ArchiveIterator needs from whatever
// carries the archive bytes: a plain io.Reader, for a record's own content,
// plus io.Closer so an iterator reading from a file can release it once
// exhausted. Transport layers supply compressed or uncompressed bytes
// equally; this package never inspects the stream for compression markers.
type IOStream interface {
	io.Reader
	io.Closer
}

// BufferedReader is what ArchiveIterator actually needs to scan for record
// boundaries and fold continuation lines: byte-at-a-time peeking plus
// line reads, without consuming bytes it only wants to look at.
type BufferedReader interface {
	io.Reader
	io.ByteReader
	// Peek returns the next n bytes without advancing the read position.
	// The returned slice is valid only until the next read operation.
	Peek(n int) ([]byte, error)
	// ReadSlice reads until delim, returning a slice referencing buffer
	// bytes, mirroring bufio.Reader.ReadSlice.
	ReadSlice(delim byte) ([]byte, error)
}

// BoundedReader bounds reads to at most n bytes from an underlying reader,
// optionally tee-ing every byte read into a DigestEngine so a digest can be
// verified without a second pass over the content. Once the bound is
// reached, Read returns io.EOF without touching the underlying reader
// again — this matters when the underlying reader is itself positioned at
// the start of the NEXT record's bytes (as ArchiveIterator's CONSUME_REMAINDER
// state relies on).
type BoundedReader struct {
	src       io.Reader
	n         int64
	limit     int64
	tee       *DigestEngine
	exhausted bool
}

// NewBoundedReader bounds reads from r to at most limit bytes. If tee is
// non-nil, every byte successfully read is also written to it, so a digest
// can be computed incrementally as the payload is consumed.
func NewBoundedReader(r io.Reader, limit int64, tee *DigestEngine) *BoundedReader {
	return &BoundedReader{src: r, limit: limit, tee: tee}
}

// Read implements io.Reader. Once limit bytes have been delivered, Read
// returns (0, io.EOF) immediately, without calling the underlying reader —
// required so a zero-length record's BoundedReader never blocks on, or
// steals bytes from, whatever follows it in the stream.
func (b *BoundedReader) Read(p []byte) (int, error) {
	if b.exhausted || b.limit == 0 || b.n >= b.limit {
		b.exhausted = true
		return 0, io.EOF
	}
	if remaining := b.limit - b.n; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := b.src.Read(p)
	b.n += int64(n)
	if n > 0 && b.tee != nil {
		b.tee.Update(p[:n])
	}
	if err == nil && b.n >= b.limit {
		err = io.EOF
	}
	if err == io.EOF {
		b.exhausted = true
	}
	return n, err
}

// N reports how many bytes have been read through this BoundedReader so far.
func (b *BoundedReader) N() int64 {
	return b.n
}

// Remaining reports how many bytes are still available to read before the
// bound is reached.
func (b *BoundedReader) Remaining() int64 {
	r := b.limit - b.n
	if r < 0 {
		return 0
	}
	return r
}

// Discard reads and discards any unread bytes up to the bound, returning
// the number of bytes discarded. It is used by the CONSUME_REMAINDER state
// to skip a record's unread content without the caller needing to inspect
// the payload at all. It stops at the bound: the record terminator's blank
// lines are consumed by the iterator's next boundary scan.
func (b *BoundedReader) Discard() (int64, error) {
	n, err := io.Copy(io.Discard, b)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

// RecordBoundedReader is a BoundedReader scoped to one Record's content,
// additionally exposing the record it belongs to so callers that received
// only the reader (e.g. an io.Reader passed to an HTTP parser) can still
// reach back to the record's headers.
type RecordBoundedReader struct {
	*BoundedReader
	Record *Record
}
