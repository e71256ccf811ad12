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
	"fmt"
	"strings"

	"github.com/nlnwa/whatwg-url/url"
)

// ValidateURIs parses WARC-Target-URI and WARC-Concurrent-To with the
// WHATWG URL parser and reports the first parse failure found, if any.
// It is a no-op unless the iterator/record was configured with
// WithURIValidation — the core otherwise treats these header values as
// opaque text, per spec.
func (r *Record) ValidateURIs() error {
	if !r.opts.validateURIs {
		return nil
	}
	if v := r.Headers.Get("WARC-Target-URI"); v != "" {
		if _, err := url.Parse(v, r.opts.urlParserOptions...); err != nil {
			return fmt.Errorf("warc: invalid WARC-Target-URI %q: %w", v, err)
		}
	}
	for _, v := range r.Headers.GetAll("WARC-Concurrent-To") {
		id := strings.Trim(v, "<>")
		if _, err := url.Parse(id, r.opts.urlParserOptions...); err != nil {
			return fmt.Errorf("warc: invalid WARC-Concurrent-To %q: %w", v, err)
		}
	}
	return nil
}
