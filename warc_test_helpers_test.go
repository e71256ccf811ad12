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
	"strings"
)

// newTestBufferedReader wraps a literal WARC fragment in the default
// bufio-backed BufferedReader implementation, for tests that exercise the
// line/header parsing helpers directly without a full ArchiveIterator.
func newTestBufferedReader(s string) BufferedReader {
	return bufio.NewReader(strings.NewReader(s))
}

// nopCloser adapts an io.Reader to an IOStream for tests that don't care
// about Close.
type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

func newTestStream(s string) IOStream {
	return nopCloser{strings.NewReader(s)}
}
