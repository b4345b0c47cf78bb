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

package avl

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var genKeys = gen.SliceOf(gen.IntRange(-500, 500))

func buildTree(keys []int) *Tree[int, int] {
	tree := New[int, int]()
	for i, k := range keys {
		tree.Insert(k, i)
	}
	return tree
}

func distinct(keys []int) int {
	seen := make(map[int]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	return len(seen)
}

func propFlushAscending(keys []int) bool {
	entries := buildTree(keys).Flush()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			return false
		}
	}
	return len(entries) == distinct(keys)
}

func propValid(keys []int) bool {
	return buildTree(keys).Validate() == nil
}

func propHeightBound(keys []int) bool {
	n := distinct(keys)
	bound := int(math.Ceil(1.44 * math.Log2(float64(n+2))))
	return buildTree(keys).Height() <= bound
}

func propLastWriteWins(keys []int) bool {
	tree := buildTree(keys)
	last := make(map[int]int, len(keys))
	for i, k := range keys {
		last[k] = i
	}
	for k, want := range last {
		if got, ok := tree.Get(k); !ok || got != want {
			return false
		}
	}
	return tree.Len() == len(last)
}

func propDuplicateInsertKeepsLen(keys []int, k int) bool {
	tree := buildTree(keys)
	tree.Insert(k, 1)
	before := tree.Len()
	tree.Insert(k, 2)
	got, _ := tree.Get(k)
	return tree.Len() == before && got == 2
}

func propShouldFlush(keys []int, threshold int) bool {
	tree := buildTree(keys)
	return tree.ShouldFlush(threshold) == (tree.Len() >= threshold)
}

func propFlushIdempotent(keys []int) bool {
	tree := buildTree(keys)
	length, height := tree.Len(), tree.Height()
	first, second := tree.Flush(), tree.Flush()
	if len(first) != len(second) {
		return false
	}
	for i := range first {
		if first[i] != second[i] {
			return false
		}
	}
	return tree.Len() == length && tree.Height() == height
}

func propClear(keys []int) bool {
	tree := buildTree(keys)
	tree.Clear()
	if !tree.IsEmpty() || tree.Height() != 0 || tree.Len() != 0 {
		return false
	}
	for _, k := range keys {
		if _, ok := tree.Get(k); ok {
			return false
		}
	}
	return true
}

func TestTreeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	properties.Property("Flush is strictly ascending without duplicates", prop.ForAll(
		propFlushAscending,
		genKeys,
	))
	properties.Property("Insert maintains AVL invariants", prop.ForAll(
		propValid,
		genKeys,
	))
	properties.Property("Height stays logarithmic", prop.ForAll(
		propHeightBound,
		genKeys,
	))
	properties.Property("Last insert of a key wins", prop.ForAll(
		propLastWriteWins,
		genKeys,
	))
	properties.Property("Duplicate insert keeps Len", prop.ForAll(
		propDuplicateInsertKeepsLen,
		genKeys,
		gen.IntRange(-500, 500),
	))
	properties.Property("ShouldFlush iff Len >= threshold", prop.ForAll(
		propShouldFlush,
		genKeys,
		gen.IntRange(0, 200),
	))
	properties.Property("Flush does not modify the tree", prop.ForAll(
		propFlushIdempotent,
		genKeys,
	))
	properties.Property("Clear empties the tree", prop.ForAll(
		propClear,
		genKeys,
	))
	properties.TestingRun(t)
}
