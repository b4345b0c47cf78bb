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

import "cmp"

// Entry is a key-value pair as returned by Flush.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Tree is an AVL-balanced ordered map used as a memtable. Insert and Get
// are O(log n). Tree does no locking: a caller sharing it between
// goroutines must serialize writers against everything else.
type Tree[K, V any] struct {
	root    *node[K, V]
	size    int
	compare func(a, b K) int
}

// New returns an empty tree ordered by cmp.Compare.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K])
}

// NewFunc returns an empty tree ordered by compare, which must define a
// total order and return a negative, zero or positive result.
func NewFunc[K, V any](compare func(a, b K) int) *Tree[K, V] {
	return &Tree[K, V]{compare: compare}
}

// Insert adds key with value, or replaces the value when key is present.
func (tree *Tree[K, V]) Insert(key K, value V) {
	_, exists := tree.Get(key)
	tree.root = insert(tree.root, key, value, tree.compare)
	if !exists {
		tree.size++
	}
}

// Get returns the value stored for key and whether it was found.
func (tree *Tree[K, V]) Get(key K) (V, bool) {
	return search(tree.root, key, tree.compare)
}

func (tree *Tree[K, V]) IsEmpty() bool {
	return tree.root == nil
}

// Len returns the number of distinct keys.
func (tree *Tree[K, V]) Len() int {
	return tree.size
}

// Height returns the height of the tree, 0 when empty.
func (tree *Tree[K, V]) Height() int {
	return getHeight(tree.root)
}

// Flush returns every entry in ascending key order. It does not modify the
// tree; callers persisting a memtable follow it with Clear.
func (tree *Tree[K, V]) Flush() []Entry[K, V] {
	result := make([]Entry[K, V], 0, tree.size)
	collectAll(tree.root, &result)
	return result
}

// Clear drops every entry.
func (tree *Tree[K, V]) Clear() {
	tree.root = nil
	tree.size = 0
}

// ShouldFlush reports whether the tree holds at least maxSize keys.
func (tree *Tree[K, V]) ShouldFlush(maxSize int) bool {
	return tree.size >= maxSize
}

// Ascend calls fn for every entry in ascending order until fn returns false.
func (tree *Tree[K, V]) Ascend(fn func(key K, value V) bool) {
	ascendRange(tree.root, nil, nil, tree.compare, fn)
}

// AscendRange calls fn for every key in [greaterOrEqual, lessThan) in
// ascending order until fn returns false.
func (tree *Tree[K, V]) AscendRange(greaterOrEqual, lessThan K, fn func(key K, value V) bool) {
	ascendRange(tree.root, &greaterOrEqual, &lessThan, tree.compare, fn)
}

// AscendGreaterOrEqual calls fn for every key >= pivot in ascending order
// until fn returns false.
func (tree *Tree[K, V]) AscendGreaterOrEqual(pivot K, fn func(key K, value V) bool) {
	ascendRange(tree.root, &pivot, nil, tree.compare, fn)
}
