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

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ArchiveIterator walks a WARC stream record by record: SEEK_BOUNDARY finds
// the next "WARC/" marker (resynchronising past any garbage in between),
// READ_HEADERS parses the header block, EMIT_RECORD applies the type
// filter and hands back a Record, CONSUME_REMAINDER drains whatever the
// caller didn't read before the next call to Next. The caller must fully
// consume or abandon a Record before advancing; Next drains it for them
// either way.
type ArchiveIterator struct {
	br        BufferedReader
	closer    io.Closer
	filter    RecordType
	parseHTTP bool
	opts      *options

	counter *streamCounter // nil unless constructed via NewArchiveIterator
	rawBuf  *bufio.Reader  // same

	current *Record
	eof     bool
}

// NewArchiveIterator constructs an iterator over stream, wrapping it in a
// default bufio-backed BufferedReader. filter is a RecordType bitmask;
// pass AnyType to match every record. When parseHTTP is true, HTTP-bearing
// records have ParseHTTP invoked eagerly as they're emitted.
func NewArchiveIterator(stream IOStream, filter RecordType, parseHTTP bool, opts ...Option) *ArchiveIterator {
	counter := &streamCounter{r: stream}
	rawBuf := bufio.NewReader(counter)
	it := NewArchiveIteratorFromBufferedReader(rawBuf, stream, filter, parseHTTP, opts...)
	it.counter = counter
	it.rawBuf = rawBuf
	return it
}

// NewArchiveIteratorFromBufferedReader constructs an iterator over a
// caller-supplied BufferedReader, for callers that already maintain their
// own buffering (e.g. layered on top of a decompressing reader). closer,
// if non-nil, is what Close releases. Records emitted by an iterator built
// this way carry an Offset of -1, and the iterator's Offset() returns -1:
// there's no way to see past the caller's BufferedReader to the raw stream
// underneath it.
func NewArchiveIteratorFromBufferedReader(br BufferedReader, closer io.Closer, filter RecordType, parseHTTP bool, opts ...Option) *ArchiveIterator {
	return &ArchiveIterator{
		br:        br,
		closer:    closer,
		filter:    filter,
		parseHTTP: parseHTTP,
		opts:      newOptions(opts...),
	}
}

// Offset reports the approximate number of bytes consumed from the
// underlying stream so far, accounting for whatever the internal
// bufio.Reader has buffered ahead but not yet handed out. Returns -1 when
// the iterator doesn't have visibility into a raw stream (see
// NewArchiveIteratorFromBufferedReader).
func (it *ArchiveIterator) Offset() int64 {
	if it.counter == nil {
		return -1
	}
	n := it.counter.n
	if it.rawBuf != nil {
		n -= int64(it.rawBuf.Buffered())
	}
	return n
}

// Close releases the underlying stream, if one was supplied.
func (it *ArchiveIterator) Close() error {
	if it.closer == nil {
		return nil
	}
	return it.closer.Close()
}

// Next advances to the next record matching the filter, draining any
// previous Record's unread payload first. It returns io.EOF once the
// stream is exhausted. A record whose block is cut short by the end of the
// stream is discarded and Next returns io.EOF; this check sees only as far
// as the BufferedReader's Peek window, so for a longer block the shortfall
// shows up as the block ending early when it is read. Any other error (an
// IOFailure from the stream, or the parse error under an ErrFail policy)
// ends iteration; once iteration has ended, every later call returns io.EOF.
func (it *ArchiveIterator) Next() (*Record, error) {
	if it.eof {
		return nil, io.EOF
	}
	for {
		if it.current != nil {
			_, _ = it.current.drain()
			it.current = nil
		}

		statusLine, recordOffset, err := it.seekBoundary()
		if err != nil {
			it.eof = true
			return nil, err
		}

		hm := NewHeaderMap(statusLine)
		if err := readHeaderBlock(it.br, hm); err != nil {
			if _, ok := err.(*UnexpectedEOFError); ok {
				it.eof = true
				return nil, io.EOF
			}
			it.warnMalformed(err)
			if it.opts.malformedHeaderPolicy == ErrFail {
				it.eof = true
				return nil, err
			}
			continue // skip_next: resynchronise from wherever parsing stopped
		}

		contentLength, err := parseContentLength(hm)
		if err != nil {
			it.warnMalformed(err)
			if it.opts.malformedHeaderPolicy == ErrFail {
				it.eof = true
				return nil, err
			}
			continue
		}

		recordTypeTag := hm.Get("WARC-Type")
		rt := recordTypeFromTag(recordTypeTag)
		if rt == Unknown {
			switch it.opts.unknownTypePolicy {
			case ErrWarn:
				it.opts.logger.Warnf("warc: unrecognised WARC-Type %q", recordTypeTag)
			case ErrFail:
				it.eof = true
				return nil, fmt.Errorf("warc: unrecognised WARC-Type %q", recordTypeTag)
			}
		}

		if it.filter&rt == 0 {
			// Still have to materialise a bounded reader to skip past the
			// content correctly before resuming the boundary scan.
			skip := NewBoundedReader(it.br, contentLength, nil)
			_, _ = skip.Discard()
			continue
		}

		if contentLength > 0 {
			if _, perr := it.br.Peek(int(contentLength)); perr == io.EOF {
				it.eof = true // truncated block: discard the partial record
				return nil, io.EOF
			}
		}

		rec := newRecordFromHeaders(hm, rt, contentLength, it.br, it.opts)
		rec.Offset = recordOffset
		if it.parseHTTP && rec.IsHTTP {
			if err := rec.ParseHTTP(); err != nil {
				it.warnMalformed(err)
				_, _ = rec.drain()
				continue
			}
		}
		it.current = rec
		return rec, nil
	}
}

func (it *ArchiveIterator) warnMalformed(err error) {
	if it.opts.malformedHeaderPolicy == ErrWarn {
		it.opts.logger.Warn(err.Error())
	}
}

// seekBoundary consumes blank lines and any garbage until it finds a line
// beginning with "WARC/", returning that line as the record's status line
// together with the stream offset the line started at (-1 when Offset()
// is unknown).
func (it *ArchiveIterator) seekBoundary() (string, int64, error) {
	for {
		start := it.Offset()
		line, err := readLine(it.br)
		if err != nil {
			return "", 0, err
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WARC/") {
			return line, start, nil
		}
		// Garbage between records: keep scanning (resynchronisation).
	}
}

// parseContentLength reads the first Content-Length value (first-wins on
// duplicates) and parses it as a non-negative integer.
func parseContentLength(hm *HeaderMap) (int64, error) {
	v := hm.Get("Content-Length")
	if v == "" {
		return 0, newMalformedHeaderError("missing Content-Length", 0)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0, newMalformedHeaderError("non-numeric Content-Length: "+v, 0)
	}
	return n, nil
}

// readLine reads a single line from br, stripping the trailing CRLF or LF.
// A final, unterminated line at true EOF is still returned once with a nil
// error; the EOF surfaces on the next call.
func readLine(br BufferedReader) (string, error) {
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		buf = append(buf, chunk...)
		if err == nil {
			return strings.TrimRight(string(buf), "\r\n"), nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if len(buf) > 0 {
			return strings.TrimRight(string(buf), "\r\n"), nil
		}
		return "", err
	}
}

// readHeaderBlock reads lines into hm until a blank line, folding
// continuation lines (leading space or tab) into the previous entry.
// Reaching the underlying stream's end before the blank line is an
// UnexpectedEOFError; a non-continuation line without a colon is a
// MalformedHeaderError.
func readHeaderBlock(br BufferedReader, hm *HeaderMap) error {
	for {
		line, err := readLine(br)
		if err != nil {
			return newUnexpectedEOFError("header block: " + err.Error())
		}
		if line == "" {
			return nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			hm.AddContinuation(line)
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return newMalformedHeaderError("missing ':' in header line: "+line, 0)
		}
		hm.Append(strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]))
	}
}
