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

package spool

// options configure a Payload's memory/disk split. Set via the Option
// values passed to New.
type options struct {
	maxMemBytes       int64
	maxTotalBytes     int64
	memBufferSizeHint int64
	tmpDir            string
}

// Option configures a Payload.
type Option interface {
	apply(*options)
}

type funcOption struct {
	f func(*options)
}

func (fo *funcOption) apply(o *options) {
	fo.f(o)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{f: f}
}

func defaultOptions() options {
	return options{
		maxMemBytes:       1 << 20, // 1 MiB in memory before spilling to disk
		maxTotalBytes:     0,       // unlimited
		memBufferSizeHint: 16 << 10,
	}
}

// WithMaxMemBytes caps how much of a payload is held in memory before it
// spills to a temp file.
func WithMaxMemBytes(size int64) Option {
	return newFuncOption(func(o *options) { o.maxMemBytes = size })
}

// WithMemBufferSizeHint sets the initial allocation size of the memory
// segment, to avoid repeated reallocation for payloads of a known rough
// size.
func WithMemBufferSizeHint(size int64) Option {
	return newFuncOption(func(o *options) { o.memBufferSizeHint = size })
}

// WithMaxTotalBytes caps the combined memory+disk size of a payload;
// writes past this bound fail with ErrSegmentFull. Zero (the default)
// means unlimited.
func WithMaxTotalBytes(size int64) Option {
	return newFuncOption(func(o *options) { o.maxTotalBytes = size })
}

// WithTmpDir sets the directory used for the overflow temp file. Empty
// (the default) uses the OS default temp directory.
func WithTmpDir(dir string) Option {
	return newFuncOption(func(o *options) { o.tmpDir = dir })
}
