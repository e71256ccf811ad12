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
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crlf = "\r\n"

// S1: single warcinfo record, no payload digest.
func TestIteratorSingleWarcinfoRecordNoDigest(t *testing.T) {
	raw := "WARC/1.1" + crlf +
		"WARC-Type: warcinfo" + crlf +
		"WARC-Record-ID: <urn:uuid:11111111-1111-1111-1111-111111111111>" + crlf +
		"WARC-Date: 2024-01-02T03:04:05Z" + crlf +
		"Content-Length: 5" + crlf +
		crlf +
		"howdy" +
		crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)
	rec, err := it.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, Warcinfo, rec.RecordType)
	assert.Len(t, rec.Headers.Entries, 4)

	ok, err := rec.VerifyBlockDigest()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

// S2: one response record with a precomputed sha1 block digest.
func TestIteratorVerifiesBlockDigest(t *testing.T) {
	body := "hello, world!"
	d, err := NewDigestEngine("sha1")
	require.NoError(t, err)
	d.Update([]byte(body))

	raw := "WARC/1.1" + crlf +
		"WARC-Type: response" + crlf +
		"Content-Length: " + strconv.Itoa(len(body)) + crlf +
		"WARC-Block-Digest: " + d.Format() + crlf +
		crlf +
		body +
		crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)
	rec, err := it.Next()
	require.NoError(t, err)

	ok, err := rec.VerifyBlockDigest()
	require.NoError(t, err)
	assert.True(t, ok)
}

// S3: two concatenated records, ordering preserved.
func TestIteratorTwoConcatenatedRecordsPreserveOrder(t *testing.T) {
	raw := "WARC/1.1" + crlf +
		"WARC-Type: request" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "one" + crlf + crlf +
		"WARC/1.1" + crlf +
		"WARC-Type: response" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "two" + crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Request, first.RecordType)

	second, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Response, second.RecordType)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

// S4: a corrupted header line causes the record to be skipped entirely.
func TestIteratorSkipsCorruptedHeaderLine(t *testing.T) {
	raw := "WARC/1.1" + crlf +
		"Foo bar" + crlf +
		crlf + "xxx" + crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)
	rec, err := it.Next()
	assert.Nil(t, rec)
	assert.Equal(t, io.EOF, err)
}

// S5: HTTP-bearing response record, eager parse_http.
func TestIteratorParsesHTTPBearingRecord(t *testing.T) {
	httpEntity := "<html></html>"
	httpBlock := "HTTP/1.1 200 OK" + crlf +
		"Content-Type: text/html" + crlf +
		crlf +
		httpEntity

	d, err := NewDigestEngine("sha1")
	require.NoError(t, err)
	d.Update([]byte(httpEntity))

	raw := "WARC/1.1" + crlf +
		"WARC-Type: response" + crlf +
		"Content-Type: application/http; msgtype=response" + crlf +
		"Content-Length: " + strconv.Itoa(len(httpBlock)) + crlf +
		"WARC-Payload-Digest: " + d.Format() + crlf +
		crlf + httpBlock + crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, true)
	rec, err := it.Next()
	require.NoError(t, err)
	require.True(t, rec.httpParsed)

	assert.Equal(t, "HTTP/1.1 200 OK", rec.HTTPHeaders.StatusLine)
	assert.Equal(t, "text/html", rec.HTTPHeaders.Get("Content-Type"))

	ok, err := rec.VerifyPayloadDigest()
	require.NoError(t, err)
	assert.True(t, ok)
}

// S6: truncated stream; the iterator yields the complete record then EOF.
func TestIteratorTruncatedStreamYieldsCompleteRecordsThenEOF(t *testing.T) {
	raw := "WARC/1.1" + crlf +
		"WARC-Type: request" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "one" + crlf + crlf +
		"WARC/1.1" + crlf +
		"WARC-Type: response" + crlf +
		"Content-Length: 100" + crlf +
		crlf + "truncated body"

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Request, first.RecordType)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestIteratorFilterMask(t *testing.T) {
	raw := "WARC/1.1" + crlf + "WARC-Type: request" + crlf + "Content-Length: 0" + crlf + crlf + crlf + crlf +
		"WARC/1.1" + crlf + "WARC-Type: metadata" + crlf + "Content-Length: 0" + crlf + crlf + crlf + crlf +
		"WARC/1.1" + crlf + "WARC-Type: response" + crlf + "Content-Length: 0" + crlf + crlf + crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), Response|Request, false)

	var got []RecordType
	for {
		rec, err := it.Next()
		if err != nil {
			break
		}
		got = append(got, rec.RecordType)
	}
	assert.Equal(t, []RecordType{Request, Response}, got)
}

func TestIteratorContinuationFolding(t *testing.T) {
	raw := "WARC/1.1" + crlf +
		"WARC-Type: metadata" + crlf +
		"X-Foo: a" + crlf +
		"  b" + crlf +
		"Content-Length: 0" + crlf +
		crlf + crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)
	rec, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "a b", rec.Headers.Get("X-Foo"))
}

func TestIteratorStampsRecordOffsets(t *testing.T) {
	firstRecord := "WARC/1.1" + crlf +
		"WARC-Type: request" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "one" + crlf + crlf
	secondRecord := "WARC/1.1" + crlf +
		"WARC-Type: response" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "two" + crlf + crlf
	raw := firstRecord + secondRecord

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Offset)

	second, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(len(firstRecord)), second.Offset)
}

func TestIteratorOffsetUnknownFromBufferedReader(t *testing.T) {
	raw := "WARC/1.1" + crlf + "WARC-Type: request" + crlf + "Content-Length: 0" + crlf + crlf + crlf + crlf

	it := NewArchiveIteratorFromBufferedReader(newTestBufferedReader(raw), nil, AnyType, false)
	assert.Equal(t, int64(-1), it.Offset())

	rec, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rec.Offset)
}

func TestIteratorGarbageBetweenRecordsResynchronises(t *testing.T) {
	raw := "WARC/1.1" + crlf +
		"WARC-Type: request" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "one" + crlf + crlf +
		"garbage garbage garbage" + crlf +
		"more garbage" + crlf +
		"WARC/1.1" + crlf +
		"WARC-Type: response" + crlf +
		"Content-Length: 3" + crlf +
		crlf + "two" + crlf + crlf

	it := NewArchiveIterator(newTestStream(raw), AnyType, false)

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Request, first.RecordType)

	second, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Response, second.RecordType)
}

