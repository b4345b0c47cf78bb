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
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// Values read back from segments stay hot for 30 minutes
	DefaultCacheExpiration = 30 * time.Minute
	// Clean up expired entries every 5 minutes
	DefaultCacheCleanup = 5 * time.Minute
)

// NewLookupCache creates the cache that fronts segment lookups.
func NewLookupCache(expiration, cleanup time.Duration) *cache.Cache {
	return cache.New(expiration, cleanup)
}

func cacheLookup(c *cache.Cache, key string, value []byte) {
	// Set instead of Add, a later segment hit for the same key must win
	c.Set(key, value, cache.DefaultExpiration)
}

func getCachedLookup(c *cache.Cache, key string) ([]byte, bool) {
	val, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	return val.([]byte), true
}
