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

/*
Package warc is a streaming reader and writer for the Web ARChive (WARC)
format: a concatenation framing format for archived web records, each
record being a header block followed by a length-prefixed payload.

To learn more about the WARC standard, read the specification at
https://iipc.github.io/warc-specifications/specifications/warc-format/warc-1.1/

# Reading

An ArchiveIterator walks a stream record by record:

	it := warc.NewArchiveIterator(stream, warc.AnyType, false)
	defer it.Close()
	for {
		rec, err := it.Next()
		if err != nil {
			break // io.EOF, or an IOFailure from the underlying stream
		}
		_ = rec.Headers.Get("WARC-Type")
	}

# Writing

A Record can also be built in memory and serialised:

	rec := warc.NewRecord()
	if err := rec.InitHeaders(int64(len(body)), warc.Response, ""); err != nil {
		// handle
	}
	if err := rec.SetBytesContent(body); err != nil {
		// handle
	}
	if _, err := rec.Write(out, true, 0); err != nil {
		// handle
	}

The core depends only on an abstract IOStream for bytes; the underlying
transport (file, gzip, network) and any decompression are the caller's
concern.
*/
package warc
