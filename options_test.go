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
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	assert.Equal(t, Version1_1, o.version)
	assert.Equal(t, ErrWarn, o.malformedHeaderPolicy)
	assert.True(t, o.addMissingRecordID)
	assert.Equal(t, "sha1", o.defaultDigestAlgorithm)
	assert.False(t, o.validateURIs)
}

func TestWithStrictValidationFailsOnMalformedHeader(t *testing.T) {
	raw := "WARC/1.1\r\nFoo bar\r\n\r\nxxx\r\n\r\n"

	it := NewArchiveIterator(newTestStream(raw), AnyType, false, WithStrictValidation())
	_, err := it.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestWithNoValidationSkipsSilently(t *testing.T) {
	raw := "WARC/1.1\r\nFoo bar\r\n\r\nxxx\r\n\r\n"

	it := NewArchiveIterator(newTestStream(raw), AnyType, false, WithNoValidation())
	_, err := it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWithRecordIDFuncOverride(t *testing.T) {
	rec := NewRecord(WithRecordIDFunc(func() (string, error) {
		return "urn:uuid:fixed", nil
	}))
	require.NoError(t, rec.InitHeaders(0, Metadata, ""))
	assert.Equal(t, "<urn:uuid:fixed>", rec.Headers.Get("WARC-Record-ID"))
}

func TestWithDefaultDigestAlgorithmAppliesOnWrite(t *testing.T) {
	rec := NewRecord(WithDefaultDigestAlgorithm("sha256"))
	require.NoError(t, rec.InitHeaders(0, Response, ""))
	require.NoError(t, rec.SetBytesContent([]byte("x")))

	var out bytes.Buffer
	_, err := rec.Write(&out, true, 0)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "WARC-Block-Digest: sha256:")
}
