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

import "fmt"

// Validate walks the whole tree and reports the first broken invariant:
// key ordering, cached heights, balance factors or the element count.
func (tree *Tree[K, V]) Validate() error {
	_, count, err := validate(tree.root, nil, nil, tree.compare)
	if err != nil {
		return err
	}
	if count != tree.size {
		return fmt.Errorf("size is %d but %d nodes are reachable", tree.size, count)
	}
	return nil
}

// validate returns the recomputed height and node count of the subtree.
// low and high are exclusive bounds inherited from the ancestors.
func validate[K, V any](n *node[K, V], low, high *K, compare func(a, b K) int) (int, int, error) {
	if n == nil {
		return 0, 0, nil
	}

	if low != nil && compare(n.key, *low) <= 0 {
		return 0, 0, fmt.Errorf("key %v is not greater than ancestor %v", n.key, *low)
	}
	if high != nil && compare(n.key, *high) >= 0 {
		return 0, 0, fmt.Errorf("key %v is not less than ancestor %v", n.key, *high)
	}

	lh, lc, err := validate(n.left, low, &n.key, compare)
	if err != nil {
		return 0, 0, err
	}
	rh, rc, err := validate(n.right, &n.key, high, compare)
	if err != nil {
		return 0, 0, err
	}

	h := max(lh, rh) + 1
	if n.height != h {
		return 0, 0, fmt.Errorf("key %v caches height %d, actual %d", n.key, n.height, h)
	}
	if bf := lh - rh; bf > 1 || bf < -1 {
		return 0, 0, fmt.Errorf("key %v has balance factor %d", n.key, bf)
	}
	return h, lc + rc + 1, nil
}
