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
	"github.com/google/uuid"
	"github.com/nlnwa/whatwg-url/url"
	"github.com/sirupsen/logrus"

	"github.com/chatnoir-eu/warc/internal/spool"
)

// errorPolicy describes how ArchiveIterator and Record react to a
// recoverable problem: a malformed header, an unknown WARC-Type, or (on
// the writer path) a spec violation that a stricter caller may want
// surfaced rather than silently tolerated.
type errorPolicy int8

const (
	ErrIgnore errorPolicy = 0 // tolerate silently
	ErrWarn   errorPolicy = 1 // tolerate, but log a warning
	ErrFail   errorPolicy = 2 // treat as an IOFailure and stop iteration
)

type options struct {
	version *Version
	logger  *logrus.Logger

	malformedHeaderPolicy errorPolicy
	unknownTypePolicy     errorPolicy

	addMissingRecordID      bool
	recordIDFunc            func() (string, error)
	addMissingContentLength bool
	addMissingDigest        bool
	defaultDigestAlgorithm  string

	bufferOptions []spool.Option

	validateURIs     bool
	urlParserOptions []url.ParserOption
}

// defaultRecordIDFunc generates a WARC-Record-ID in canonical urn:uuid form.
var defaultRecordIDFunc = func() (string, error) {
	return uuid.New().URN(), nil
}

func defaultOptions() options {
	return options{
		version:                 Version1_1,
		logger:                  logrus.StandardLogger(),
		malformedHeaderPolicy:   ErrWarn,
		unknownTypePolicy:       ErrWarn,
		addMissingRecordID:      true,
		recordIDFunc:            defaultRecordIDFunc,
		addMissingContentLength: true,
		addMissingDigest:        true,
		defaultDigestAlgorithm:  "sha1",
		validateURIs:            false,
	}
}

// Option configures a Record's writer-path defaults and an ArchiveIterator's
// tolerance for recoverable parse errors.
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

func newOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithVersion sets the WARC version written to new records' status line.
//
// defaults to WARC/1.1
func WithVersion(v *Version) Option {
	return newFuncOption(func(o *options) { o.version = v })
}

// WithLogger sets the logger used for ErrWarn-level diagnostics emitted
// while scanning an archive.
//
// defaults to logrus.StandardLogger()
func WithLogger(l *logrus.Logger) Option {
	return newFuncOption(func(o *options) { o.logger = l })
}

// WithMalformedHeaderPolicy sets how the iterator reacts to a header block
// it cannot parse.
//
// defaults to ErrWarn (skip the record, log a warning)
func WithMalformedHeaderPolicy(p errorPolicy) Option {
	return newFuncOption(func(o *options) { o.malformedHeaderPolicy = p })
}

// WithUnknownRecordTypePolicy sets how the iterator reacts to a WARC-Type
// value outside the known enumeration.
//
// defaults to ErrWarn (tag the record Unknown, log a warning)
func WithUnknownRecordTypePolicy(p errorPolicy) Option {
	return newFuncOption(func(o *options) { o.unknownTypePolicy = p })
}

// WithAddMissingRecordID sets whether InitHeaders generates a
// WARC-Record-ID when the caller didn't supply one.
//
// defaults to true
func WithAddMissingRecordID(b bool) Option {
	return newFuncOption(func(o *options) { o.addMissingRecordID = b })
}

// WithRecordIDFunc overrides how InitHeaders generates a WARC-Record-ID.
// The returned string must be a valid URI without surrounding '<' '>'.
//
// defaults to a random urn:uuid
func WithRecordIDFunc(f func() (string, error)) Option {
	return newFuncOption(func(o *options) { o.recordIDFunc = f })
}

// WithAddMissingContentLength sets whether SetBytesContent updates
// Content-Length to the attached payload's size. InitHeaders always writes
// the Content-Length it is given, whatever this option says.
//
// defaults to true
func WithAddMissingContentLength(b bool) Option {
	return newFuncOption(func(o *options) { o.addMissingContentLength = b })
}

// WithAddMissingDigest sets whether Write computes and injects
// WARC-Block-Digest (and WARC-Payload-Digest for HTTP-bearing records)
// when checksumData is requested. An existing header of the same name is
// overwritten with the computed value.
//
// defaults to true
func WithAddMissingDigest(b bool) Option {
	return newFuncOption(func(o *options) { o.addMissingDigest = b })
}

// WithDefaultDigestAlgorithm sets which algorithm DigestEngine instances
// created on the writer path use. Valid values: "md5", "sha1", "sha256".
//
// defaults to "sha1"
func WithDefaultDigestAlgorithm(algo string) Option {
	return newFuncOption(func(o *options) { o.defaultDigestAlgorithm = algo })
}

// WithBufferMaxMemBytes sets the size a Record's spooled payload buffer may
// reach in memory before it overflows to a temporary file.
//
// defaults to 1 MiB
func WithBufferMaxMemBytes(size int64) Option {
	return newFuncOption(func(o *options) {
		o.bufferOptions = append(o.bufferOptions, spool.WithMaxMemBytes(size))
	})
}

// WithBufferTmpDir sets the directory used for a spooled payload buffer's
// overflow files.
//
// defaults to os.TempDir
func WithBufferTmpDir(dir string) Option {
	return newFuncOption(func(o *options) {
		o.bufferOptions = append(o.bufferOptions, spool.WithTmpDir(dir))
	})
}

// WithURIValidation turns on WHATWG URL validation (Record.ValidateURIs) of
// WARC-Target-URI and WARC-Concurrent-To header values. Values are only
// checked; they are not rewritten in normalised form.
//
// defaults to false: the core treats header values as opaque text, per
// spec — this is strictly an opt-in convenience for callers that already
// depend on whatwg-url elsewhere in their pipeline.
func WithURIValidation(enabled bool, opts ...url.ParserOption) Option {
	return newFuncOption(func(o *options) {
		o.validateURIs = enabled
		o.urlParserOptions = append(o.urlParserOptions, opts...)
	})
}

// WithNoValidation configures the most lenient iterator: malformed headers
// and unknown record types are silently tolerated.
func WithNoValidation() Option {
	return newFuncOption(func(o *options) {
		o.malformedHeaderPolicy = ErrIgnore
		o.unknownTypePolicy = ErrIgnore
	})
}

// WithStrictValidation configures the iterator to stop on the first
// malformed header or unknown record type instead of skipping it.
func WithStrictValidation() Option {
	return newFuncOption(func(o *options) {
		o.malformedHeaderPolicy = ErrFail
		o.unknownTypePolicy = ErrFail
	})
}
