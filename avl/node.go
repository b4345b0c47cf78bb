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

// node owns its two subtrees exclusively. Rotations move ownership between
// nodes, they never share a child.
type node[K, V any] struct {
	key    K
	value  V
	height int // height of the subtree rooted here, a leaf is 1
	left   *node[K, V]
	right  *node[K, V]
}

func newLeaf[K, V any](key K, value V) *node[K, V] {
	return &node[K, V]{key: key, value: value, height: 1}
}

// getHeight treats an absent subtree as height 0.
func getHeight[K, V any](n *node[K, V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[K, V]) updateHeight() {
	n.height = max(getHeight(n.left), getHeight(n.right)) + 1
}

func (n *node[K, V]) balanceFactor() int {
	return getHeight(n.left) - getHeight(n.right)
}

// rotateLeft promotes the right child. The demoted root gets its height
// recomputed before the pivot, since the pivot's height depends on it.
func rotateLeft[K, V any](root *node[K, V]) *node[K, V] {
	pivot := root.right
	root.right = pivot.left
	root.updateHeight()

	pivot.left = root
	pivot.updateHeight()
	return pivot
}

// rotateRight mirrors rotateLeft.
func rotateRight[K, V any](root *node[K, V]) *node[K, V] {
	pivot := root.left
	root.left = pivot.right
	root.updateHeight()

	pivot.right = root
	pivot.updateHeight()
	return pivot
}

// rebalance restores |balance| <= 1 at n with one or two rotations.
func rebalance[K, V any](n *node[K, V]) *node[K, V] {
	balanceFactor := n.balanceFactor()

	// Left-heavy
	if balanceFactor > 1 {
		if n.left.balanceFactor() < 0 {
			// Left-Right case
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}

	// Right-heavy
	if balanceFactor < -1 {
		if n.right.balanceFactor() > 0 {
			// Right-Left case
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}

	return n
}

// insert returns the new root of the subtree. An existing key only has its
// value replaced; the shape is untouched so no rebalancing happens.
func insert[K, V any](n *node[K, V], key K, value V, compare func(a, b K) int) *node[K, V] {
	if n == nil {
		return newLeaf(key, value)
	}

	c := compare(key, n.key)
	switch {
	case c < 0:
		n.left = insert(n.left, key, value, compare)
	case c > 0:
		n.right = insert(n.right, key, value, compare)
	default:
		n.value = value
		return n
	}

	n.updateHeight()
	return rebalance(n)
}

func search[K, V any](n *node[K, V], key K, compare func(a, b K) int) (V, bool) {
	if n == nil {
		var zero V
		return zero, false
	}

	c := compare(key, n.key)
	if c < 0 {
		return search(n.left, key, compare)
	} else if c > 0 {
		return search(n.right, key, compare)
	}
	return n.value, true
}

// collectAll appends the subtree in ascending key order.
func collectAll[K, V any](n *node[K, V], result *[]Entry[K, V]) {
	if n == nil {
		return
	}
	collectAll(n.left, result)
	*result = append(*result, Entry[K, V]{Key: n.key, Value: n.value})
	collectAll(n.right, result)
}

// ascendRange visits keys satisfying low <= key < high in order, skipping
// subtrees that cannot hold a match. A nil bound is open. It reports false
// once fn asked to stop.
func ascendRange[K, V any](n *node[K, V], low, high *K, compare func(a, b K) int, fn func(K, V) bool) bool {
	if n == nil {
		return true
	}

	aboveLow := low == nil || compare(n.key, *low) >= 0
	belowHigh := high == nil || compare(n.key, *high) < 0

	// If n.key can still be >= low, the left subtree may hold matches
	if aboveLow {
		if !ascendRange(n.left, low, high, compare, fn) {
			return false
		}
	}

	if aboveLow && belowHigh {
		if !fn(n.key, n.value) {
			return false
		}
	}

	// If n.key is still < high, the right subtree may hold matches
	if belowHigh {
		return ascendRange(n.right, low, high, compare, fn)
	}
	return true
}
