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

// Package spool backs a Record's writer-path block with a buffer that
// stays in memory for small payloads and spills to a temp file once the
// block crosses a configured threshold. A capture that writes one giant
// response body should not force the whole thing onto the heap just to
// compute its block digest and frame it for Write.
package spool

import (
	"errors"
	"io"
	"math"
)

const tmpFilePrefix = "warc-payload-"

// Payload is a record block under construction: written once by the
// caller (SetBytesContent or a streaming writer), then read back twice —
// once to compute WARC-Block-Digest, once more (after rewinding) to
// frame the bytes onto the wire — so it must support Seek.
type Payload interface {
	io.Writer
	io.Reader
	io.Seeker
	io.Closer
	Size() int64
}

// payload is a memory segment backed by an optional disk segment for
// whatever overflows the memory budget. off tracks the read cursor across
// both segments as a single logical address space:
// [0, mem.size()) lives in memory, [mem.size(), Size()) lives on disk.
// Writes always append at Size(), whatever off is.
type payload struct {
	opts options
	mem  *memSegment
	disk *diskSegment
	off  int64
	max  int64
}

// New creates an empty Payload ready for writing.
func New(opts ...Option) Payload {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	if o.maxTotalBytes > 0 && o.maxMemBytes > o.maxTotalBytes {
		o.maxMemBytes = o.maxTotalBytes
	}

	p := &payload{opts: o, mem: newMemSegment(o.maxMemBytes, o.memBufferSizeHint)}
	if o.maxTotalBytes == 0 {
		p.max = math.MaxInt64
	} else {
		p.max = o.maxTotalBytes
	}
	return p
}

// Size reports the total number of bytes written so far, across both
// segments.
func (p *payload) Size() int64 {
	return p.mem.size() + p.disk.size()
}

// Write appends b, spilling to a temp file once the memory segment fills.
func (p *payload) Write(b []byte) (int, error) {
	var wrote int
	if p.mem.hasSpace() {
		n := p.mem.write(b)
		wrote = n
		if p.mem.hasSpace() {
			return wrote, nil
		}
		b = b[wrote:]
		if p.disk == nil {
			var err error
			if p.disk, err = newDiskSegment(p.max-p.mem.cap(), p.opts.tmpDir); err != nil {
				return wrote, err
			}
		}
	}
	n, err := p.disk.write(b)
	wrote += n
	return wrote, err
}

// Read reads the next len(b) bytes from the current cursor position,
// straddling the memory/disk boundary transparently.
func (p *payload) Read(b []byte) (int, error) {
	if p.off >= p.Size() {
		if len(b) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n, err := p.mem.read(p.off, b)
	p.off += int64(n)

	if err == io.EOF && len(b) > n && p.disk != nil {
		m, derr := p.disk.read(p.off-p.mem.size(), b[n:])
		p.off += int64(m)
		n += m
		err = derr
	}
	return n, err
}

// Seek repositions the read cursor. Only io.SeekStart and
// io.SeekCurrent are meaningfully exercised by this package's callers
// (rewinding before a second read pass), but all three whences behave as
// io.Seeker documents.
func (p *payload) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = p.off + offset
	case io.SeekEnd:
		abs = p.Size() + offset
	default:
		return p.off, errors.New("spool: invalid whence")
	}
	if abs < 0 {
		return p.off, errors.New("spool: negative position")
	}
	p.off = abs
	return abs, nil
}

// Close releases the backing temp file, if one was created.
func (p *payload) Close() error {
	return p.disk.close()
}
