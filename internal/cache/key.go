// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// OpParam is the reserved parameter key under which the fetch layer folds
// the originating operation name into the key fingerprint. Without it, two
// distinct operations sharing category+identifier+params would collide.
const OpParam = "__op__"

// Key derives the cache key for (category, identifier, params). Params are
// canonicalized with sorted keys so argument order never affects the key,
// and the raw form is hashed to keep it fixed-length and filename-safe.
func Key(category, identifier string, params map[string]string) string {
	parts := []string{category, identifier}
	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+params[k])
		}
		parts = append(parts, strings.Join(pairs, "&"))
	}

	h := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}
