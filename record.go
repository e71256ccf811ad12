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
	"io"
	"strconv"
	"strings"

	"github.com/chatnoir-eu/warc/internal/spool"
	"github.com/chatnoir-eu/warc/internal/timestamp"
)

const defaultChunkSize = 1 << 20 // 1 MiB

// Record is the in-memory view of one WARC archive entry: its headers, a
// type derived from WARC-Type, and a reader positioned at the start of its
// block. HTTP-bearing records (Content-Type: application/http...) can
// additionally have their embedded status/request line and headers parsed
// out of the block on request.
//
// A Record produced by an ArchiveIterator is valid only until the next
// call to Next on that iterator; reading it after that point observes
// whatever the iterator has since done to the shared stream.
type Record struct {
	Headers     *HeaderMap
	RecordType  RecordType
	IsHTTP      bool
	HTTPHeaders *HeaderMap

	// Offset is the approximate byte offset in the source stream where
	// this record's header block began, as reported by the
	// ArchiveIterator that produced it. -1 for records that didn't come
	// from a stream (built with NewRecord) or whose iterator couldn't
	// see the raw stream (NewArchiveIteratorFromBufferedReader).
	Offset int64

	ContentLength int64

	body       io.Reader
	httpParsed bool

	opts *options
}

// NewRecord creates an empty Record for the writer path. Call InitHeaders
// and SetBytesContent (or set Headers directly) before Write.
func NewRecord(opts ...Option) *Record {
	o := newOptions(opts...)
	return &Record{
		Headers: NewHeaderMap(o.version.String()),
		Offset:  -1,
		opts:    o,
	}
}

// newRecordFromHeaders builds a Record for the reader path: hm has already
// been populated by the iterator's header parse, and src is the shared
// buffered reader positioned at the start of the block.
func newRecordFromHeaders(hm *HeaderMap, rt RecordType, contentLength int64, src BufferedReader, opts *options) *Record {
	return &Record{
		Headers:       hm,
		RecordType:    rt,
		IsHTTP:        isHTTPContentType(hm.Get("Content-Type")),
		ContentLength: contentLength,
		body:          NewBoundedReader(src, contentLength, nil),
		opts:          opts,
	}
}

func isHTTPContentType(contentType string) bool {
	return strings.HasPrefix(asciiLower(strings.TrimSpace(contentType)), "application/http")
}

// InitHeaders fills the canonical header set a newly constructed record
// needs: WARC-Type, WARC-Record-ID (generated unless recordURN is given or
// the record already carries one), WARC-Date, and Content-Length.
// recordType of NoType is treated as Unknown.
func (r *Record) InitHeaders(contentLength int64, recordType RecordType, recordURN string) error {
	if recordType == NoType {
		recordType = Unknown
	}
	r.RecordType = recordType
	r.Headers.Set("WARC-Type", recordType.String())

	switch {
	case recordURN != "":
		r.Headers.Set("WARC-Record-ID", "<"+recordURN+">")
	case r.opts.addMissingRecordID && r.Headers.Get("WARC-Record-ID") == "":
		id, err := r.opts.recordIDFunc()
		if err != nil {
			return err
		}
		r.Headers.Set("WARC-Record-ID", "<"+id+">")
	}

	r.Headers.Set("WARC-Date", timestamp.UTCW3cIso8601(timestamp.Now()))
	r.ContentLength = contentLength
	r.Headers.Set("Content-Length", strconv.FormatInt(contentLength, 10))
	return nil
}

// SetBytesContent attaches an in-memory payload as the record's block,
// spooling it through a spool.Payload (memory until the configured
// threshold, then a temp file) and updating Content-Length.
func (r *Record) SetBytesContent(b []byte) error {
	buf := spool.New(r.opts.bufferOptions...)
	if _, err := buf.Write(b); err != nil {
		return err
	}
	if _, err := buf.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r.body = buf
	r.httpParsed = false
	r.HTTPHeaders = nil
	r.ContentLength = int64(len(b))
	if r.opts.addMissingContentLength {
		r.Headers.Set("Content-Length", strconv.FormatInt(r.ContentLength, 10))
	}
	r.IsHTTP = isHTTPContentType(r.Headers.Get("Content-Type"))
	return nil
}

// ParseHTTP reads the record's embedded HTTP status/request line and
// headers from the start of its block, leaving the reader positioned at
// the entity body. It is a UsageError on a non-HTTP record. Idempotent:
// a second call is a no-op.
func (r *Record) ParseHTTP() error {
	if !r.IsHTTP {
		return newUsageError("ParseHTTP called on a non-HTTP record")
	}
	if r.httpParsed {
		return nil
	}
	if r.body == nil {
		return newUsageError("ParseHTTP called on a record with no content attached")
	}

	br, ok := r.body.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r.body)
	}

	statusLine, err := readLine(br)
	if err != nil {
		return newUnexpectedEOFError("HTTP status/request line: " + err.Error())
	}
	hm := NewHeaderMap(statusLine)
	if err := readHeaderBlock(br, hm); err != nil {
		return err
	}
	r.HTTPHeaders = hm
	r.body = br
	r.httpParsed = true
	return nil
}

// VerifyBlockDigest hashes whatever remains of the block through a sha1
// DigestEngine and compares it to WARC-Block-Digest. It returns false,
// with no error, when the header is absent or names a different
// algorithm; mismatches and absence are results, not failures. Consumes
// the reader: call this before any other read of the block if the whole
// block must be covered.
func (r *Record) VerifyBlockDigest() (bool, error) {
	want := r.Headers.Get("WARC-Block-Digest")
	if want == "" {
		return false, nil
	}
	return verifyBase32Digest(want, r.body)
}

// VerifyPayloadDigest parses the HTTP headers (if not already parsed) and
// hashes only the entity body, comparing it to WARC-Payload-Digest. It is
// a UsageError on a non-HTTP record.
func (r *Record) VerifyPayloadDigest() (bool, error) {
	if !r.IsHTTP {
		return false, newUsageError("VerifyPayloadDigest requires an HTTP-bearing record")
	}
	if err := r.ParseHTTP(); err != nil {
		return false, err
	}
	want := r.Headers.Get("WARC-Payload-Digest")
	if want == "" {
		return false, nil
	}
	return verifyBase32Digest(want, r.body)
}

// Write serialises the full record to out: headers, a blank line, the
// payload in chunkSize blocks (0 selects a 1 MiB default), and the
// two-CRLF record terminator. It returns the total number of bytes
// written. If checksumData is true and the payload supports rewinding
// (as SetBytesContent's spooled buffer does), a WARC-Block-Digest (and,
// for HTTP-bearing records, a WARC-Payload-Digest) is computed and
// injected before the headers are written.
func (r *Record) Write(out io.Writer, checksumData bool, chunkSize int) (int64, error) {
	if r.body == nil {
		return 0, newUsageError("Write called on a record with no payload attached")
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	if checksumData && r.opts.addMissingDigest {
		if err := r.injectDigests(); err != nil {
			return 0, err
		}
	}

	var written int64

	n, err := r.Headers.Write(out)
	written += n
	if err != nil {
		return written, err
	}

	nn, err := io.WriteString(out, "\r\n")
	written += int64(nn)
	if err != nil {
		return written, err
	}

	buf := make([]byte, chunkSize)
	for {
		rn, rerr := r.body.Read(buf)
		if rn > 0 {
			wn, werr := out.Write(buf[:rn])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, rerr
		}
	}

	nn, err = io.WriteString(out, "\r\n\r\n")
	written += int64(nn)
	return written, err
}

// injectDigests computes WARC-Block-Digest (and, for HTTP-bearing
// records, WARC-Payload-Digest) from a rewindable payload, leaving the
// payload reset to its start. Non-rewindable payloads (the reader path's
// BoundedReader) are left untouched — digest injection only applies to
// records being freshly written.
func (r *Record) injectDigests() error {
	buf, ok := r.body.(spool.Payload)
	if !ok {
		return nil
	}

	blockDigest, err := NewDigestEngine(r.opts.defaultDigestAlgorithm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(blockDigest, buf); err != nil {
		return err
	}
	r.Headers.Set("WARC-Block-Digest", blockDigest.Format())

	if r.IsHTTP {
		if _, err := buf.Seek(0, io.SeekStart); err != nil {
			return err
		}
		r.body = buf
		r.httpParsed = false
		r.HTTPHeaders = nil
		if err := r.ParseHTTP(); err == nil {
			payloadDigest, perr := NewDigestEngine(r.opts.defaultDigestAlgorithm)
			if perr == nil {
				_, _ = io.Copy(payloadDigest, r.body)
				r.Headers.Set("WARC-Payload-Digest", payloadDigest.Format())
			}
		}
		r.httpParsed = false
		r.HTTPHeaders = nil
	}

	if _, err := buf.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r.body = buf
	return nil
}

// drain discards whatever is left of the record's block, positioning the
// shared stream at the record's end. Called by ArchiveIterator before it
// advances, whether the caller consumed the record or abandoned it.
func (r *Record) drain() (int64, error) {
	if br, ok := r.body.(*BoundedReader); ok {
		return br.Discard()
	}
	return io.Copy(io.Discard, r.body)
}
