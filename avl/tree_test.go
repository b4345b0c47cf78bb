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
	"bytes"
	"testing"
)

type AVLTestCase struct {
	Name           string
	KeysToInsert   []string
	ExpectedOrder  []string // In-order traversal expectation after operations
	ExpectedRoot   string
	ExpectedHeight int
}

func TestTreeRotations(t *testing.T) {
	testCases := []AVLTestCase{
		{
			Name:           "Right-Right (rotate left)",
			KeysToInsert:   []string{"apple", "banana", "cherry"},
			ExpectedOrder:  []string{"apple", "banana", "cherry"},
			ExpectedRoot:   "banana",
			ExpectedHeight: 2,
		},
		{
			Name:           "Left-Left (rotate right)",
			KeysToInsert:   []string{"cherry", "banana", "apple"},
			ExpectedOrder:  []string{"apple", "banana", "cherry"},
			ExpectedRoot:   "banana",
			ExpectedHeight: 2,
		},
		{
			Name:           "Left-Right",
			KeysToInsert:   []string{"cherry", "apple", "banana"},
			ExpectedOrder:  []string{"apple", "banana", "cherry"},
			ExpectedRoot:   "banana",
			ExpectedHeight: 2,
		},
		{
			Name:           "Right-Left",
			KeysToInsert:   []string{"apple", "cherry", "banana"},
			ExpectedOrder:  []string{"apple", "banana", "cherry"},
			ExpectedRoot:   "banana",
			ExpectedHeight: 2,
		},
		{
			Name:           "Mixed Operations",
			KeysToInsert:   []string{"dog", "cat", "elephant", "bird", "ant"},
			ExpectedOrder:  []string{"ant", "bird", "cat", "dog", "elephant"},
			ExpectedRoot:   "dog",
			ExpectedHeight: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			tree := New[string, int]()
			for i, key := range tc.KeysToInsert {
				tree.Insert(key, i)
			}

			if !verifyInOrderTraversal(t, tree, tc.ExpectedOrder) {
				t.Errorf("In-order traversal mismatch for test case '%s'", tc.Name)
			}
			if tree.root.key != tc.ExpectedRoot {
				t.Errorf("root = %q; want %q", tree.root.key, tc.ExpectedRoot)
			}
			if got := tree.Height(); got != tc.ExpectedHeight {
				t.Errorf("Height() = %d; want %d", got, tc.ExpectedHeight)
			}
			if err := tree.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func verifyInOrderTraversal(t *testing.T, tree *Tree[string, int], expected []string) bool {
	var actual []string
	for _, e := range tree.Flush() {
		actual = append(actual, e.Key)
	}
	if len(actual) != len(expected) {
		t.Logf("Length mismatch. Expected %d elements, got %d", len(expected), len(actual))
		return false
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Logf("Mismatch at index %d. Expected '%s', got '%s'", i, expected[i], actual[i])
			return false
		}
	}
	return true
}

func TestEmptyTree(t *testing.T) {
	tree := New[int, string]()

	if !tree.IsEmpty() {
		t.Error("new tree should be empty")
	}
	if tree.Len() != 0 {
		t.Errorf("Len() = %d; want 0", tree.Len())
	}
	if tree.Height() != 0 {
		t.Errorf("Height() = %d; want 0", tree.Height())
	}
	if _, ok := tree.Get(1); ok {
		t.Error("Get on empty tree should miss")
	}
	entries := tree.Flush()
	if entries == nil || len(entries) != 0 {
		t.Errorf("Flush() = %v; want empty non-nil slice", entries)
	}
	if !tree.ShouldFlush(0) {
		t.Error("ShouldFlush(0) should hold for an empty tree")
	}
	if tree.ShouldFlush(1) {
		t.Error("ShouldFlush(1) should not hold for an empty tree")
	}
}

func TestInsertAndGet(t *testing.T) {
	tree := New[int, string]()
	tree.Insert(5, "five")
	tree.Insert(3, "three")
	tree.Insert(7, "seven")
	tree.Insert(1, "one")
	tree.Insert(9, "nine")

	if tree.Len() != 5 {
		t.Errorf("Len() = %d; want 5", tree.Len())
	}
	if got, ok := tree.Get(3); !ok || got != "three" {
		t.Errorf("Get(3) = %q, %v; want \"three\", true", got, ok)
	}
	if _, ok := tree.Get(2); ok {
		t.Error("Get(2) should miss")
	}
	if tree.IsEmpty() {
		t.Error("tree should not be empty")
	}
}

func TestInsertExistingKeyReplacesValue(t *testing.T) {
	tree := New[int, string]()
	tree.Insert(5, "five")
	tree.Insert(5, "FIVE")

	if tree.Len() != 1 {
		t.Errorf("Len() = %d; want 1", tree.Len())
	}
	if got, _ := tree.Get(5); got != "FIVE" {
		t.Errorf("Get(5) = %q; want \"FIVE\"", got)
	}
}

func TestInsertExistingKeyKeepsShape(t *testing.T) {
	tree := New[int, int]()
	for i := 1; i <= 20; i++ {
		tree.Insert(i, i)
	}
	before := tree.Height()
	root := tree.root

	for i := 1; i <= 20; i++ {
		tree.Insert(i, -i)
	}

	if tree.root != root {
		t.Error("re-inserting existing keys should not move the root")
	}
	if tree.Height() != before {
		t.Errorf("Height() = %d; want %d", tree.Height(), before)
	}
	if tree.Len() != 20 {
		t.Errorf("Len() = %d; want 20", tree.Len())
	}
	for i := 1; i <= 20; i++ {
		if got, _ := tree.Get(i); got != -i {
			t.Errorf("Get(%d) = %d; want %d", i, got, -i)
		}
	}
}

func TestHeightBoundsForSequentialInserts(t *testing.T) {
	tests := []struct {
		name      string
		keys      func() []int
		maxHeight int
	}{
		{"ascending 1..7", func() []int { return seq(1, 7) }, 4},
		{"ascending 1..100", func() []int { return seq(1, 100) }, 8},
		{"descending 100..1", func() []int {
			keys := seq(1, 100)
			for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
				keys[i], keys[j] = keys[j], keys[i]
			}
			return keys
		}, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := New[int, int]()
			keys := tc.keys()
			for _, k := range keys {
				tree.Insert(k, k*10)
			}

			if tree.Height() > tc.maxHeight {
				t.Errorf("Height() = %d; want <= %d", tree.Height(), tc.maxHeight)
			}
			for _, k := range keys {
				if got, ok := tree.Get(k); !ok || got != k*10 {
					t.Errorf("Get(%d) = %d, %v; want %d, true", k, got, ok, k*10)
				}
			}
			if _, ok := tree.Get(200); ok {
				t.Error("Get(200) should miss")
			}
			if err := tree.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestFlushIsNonDestructive(t *testing.T) {
	tree := New[int, string]()
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(k, "v")
	}
	height := tree.Height()

	first := tree.Flush()
	second := tree.Flush()

	if len(first) != 7 || len(second) != 7 {
		t.Fatalf("Flush() lengths = %d, %d; want 7, 7", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs between flushes: %v vs %v", i, first[i], second[i])
		}
		if first[i].Key != i+1 {
			t.Errorf("entry %d has key %d; want %d", i, first[i].Key, i+1)
		}
	}
	if tree.Len() != 7 || tree.Height() != height {
		t.Errorf("Flush changed the tree: Len()=%d Height()=%d", tree.Len(), tree.Height())
	}
}

func TestClear(t *testing.T) {
	tree := New[int, int]()
	for i := 0; i < 50; i++ {
		tree.Insert(i, i)
	}

	tree.Clear()
	tree.Clear()

	if !tree.IsEmpty() || tree.Len() != 0 || tree.Height() != 0 {
		t.Errorf("after Clear: IsEmpty()=%v Len()=%d Height()=%d", tree.IsEmpty(), tree.Len(), tree.Height())
	}
	for i := 0; i < 50; i++ {
		if _, ok := tree.Get(i); ok {
			t.Errorf("Get(%d) should miss after Clear", i)
		}
	}

	tree.Insert(1, 1)
	if tree.Len() != 1 {
		t.Errorf("Len() after reuse = %d; want 1", tree.Len())
	}
}

func TestShouldFlush(t *testing.T) {
	tree := New[int, int]()
	for i := 0; i < 10; i++ {
		tree.Insert(i, i)
	}

	tests := []struct {
		threshold int
		want      bool
	}{
		{0, true},
		{9, true},
		{10, true},
		{11, false},
		{100, false},
	}
	for _, tc := range tests {
		if got := tree.ShouldFlush(tc.threshold); got != tc.want {
			t.Errorf("ShouldFlush(%d) = %v; want %v", tc.threshold, got, tc.want)
		}
	}
}

func TestAscendRange(t *testing.T) {
	tree := New[string, int]()
	for i, k := range []string{"git push", "git pull", "go build", "go test", "kubectl get", "git commit"} {
		tree.Insert(k, i)
	}

	var got []string
	tree.AscendRange("git", "git\uffff", func(key string, _ int) bool {
		got = append(got, key)
		return true
	})
	want := []string{"git commit", "git pull", "git push"}
	if len(got) != len(want) {
		t.Fatalf("AscendRange = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AscendRange[%d] = %q; want %q", i, got[i], want[i])
		}
	}

	got = got[:0]
	tree.AscendGreaterOrEqual("go", func(key string, _ int) bool {
		got = append(got, key)
		return len(got) < 2
	})
	if len(got) != 2 || got[0] != "go build" || got[1] != "go test" {
		t.Errorf("AscendGreaterOrEqual with early stop = %v", got)
	}

	count := 0
	tree.Ascend(func(string, int) bool {
		count++
		return true
	})
	if count != tree.Len() {
		t.Errorf("Ascend visited %d; want %d", count, tree.Len())
	}
}

func TestNewFuncWithByteKeys(t *testing.T) {
	tree := NewFunc[[]byte, string](bytes.Compare)
	tree.Insert([]byte("b"), "2")
	tree.Insert([]byte("a"), "1")
	tree.Insert([]byte("c"), "3")
	tree.Insert([]byte("a"), "one")

	if tree.Len() != 3 {
		t.Errorf("Len() = %d; want 3", tree.Len())
	}
	if got, _ := tree.Get([]byte("a")); got != "one" {
		t.Errorf("Get(a) = %q; want \"one\"", got)
	}
	entries := tree.Flush()
	if string(entries[0].Key) != "a" || string(entries[2].Key) != "c" {
		t.Errorf("Flush() order = %v", entries)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tree := New[int, int]()
	for i := 1; i <= 7; i++ {
		tree.Insert(i, i)
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate() on a fresh tree = %v", err)
	}

	tree.root.height = 42
	if err := tree.Validate(); err == nil {
		t.Error("Validate() should report a wrong cached height")
	}
	tree.root.updateHeight()

	tree.root.left.key = 100
	if err := tree.Validate(); err == nil {
		t.Error("Validate() should report an ordering violation")
	}
	tree.root.left.key = 2

	tree.size++
	if err := tree.Validate(); err == nil {
		t.Error("Validate() should report a size mismatch")
	}
}

func seq(from, to int) []int {
	keys := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		keys = append(keys, i)
	}
	return keys
}
