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

// streamCounter sits below an ArchiveIterator's bufio.Reader, counting
// every byte pulled off the raw stream so Next can stamp each emitted
// Record with the approximate offset its header block started at. This
// package doesn't build an index (that's a transport-layer concern this
// core deliberately leaves out), but a caller logging a resync after
// corrupted input, or building its own lightweight index alongside the
// scan, needs to know where in the stream a record began.
type streamCounter struct {
	r io.Reader
	n int64
}

func (c *streamCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
