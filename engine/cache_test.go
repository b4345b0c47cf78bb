// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"testing"
	"time"
)

func TestCacheLookupAndGet(t *testing.T) {
	c := NewLookupCache(DefaultCacheExpiration, DefaultCacheCleanup)
	key := "user:1"

	// A missing key is a miss, not a nil value.
	if v, ok := getCachedLookup(c, key); ok {
		t.Errorf("getCachedLookup(%q) = %q, true; want miss", key, v)
	}

	cacheLookup(c, key, []byte("old"))
	cacheLookup(c, key, []byte("new"))

	if v, ok := getCachedLookup(c, key); !ok || string(v) != "new" {
		t.Errorf("getCachedLookup(%q) = %q, %v; want new, true", key, v, ok)
	}
}

func TestCacheExpiration(t *testing.T) {
	// Create a cache with a very short expiration time to test expiry behavior.
	c := NewLookupCache(100*time.Millisecond, 50*time.Millisecond)
	key := "expiring"

	cacheLookup(c, key, []byte("soon gone"))

	if _, ok := getCachedLookup(c, key); !ok {
		t.Fatalf("getCachedLookup(%q) missed right after caching", key)
	}

	// Wait longer than the expiration duration.
	time.Sleep(150 * time.Millisecond)

	if _, ok := getCachedLookup(c, key); ok {
		t.Errorf("after expiration, getCachedLookup(%q) should miss", key)
	}
}
