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

// Package segment persists a flushed memtable snapshot as an immutable,
// sorted file and serves lookups from it.
package segment

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/cybrota/avlmem/avl"
	"github.com/willf/bloom"
)

// Binary file format:
// Header (32 bytes):
//   - Magic number (8 bytes): "AVLMSEG1"
//   - Version (4 bytes): uint32
//   - Record count (4 bytes): uint32
//   - Created (8 bytes): int64 unix nanoseconds
//   - Reserved (8 bytes)
// Bloom filter data (variable size)
// Records (variable size, ascending by key):
//   - key length (4 bytes) + key
//   - value length (4 bytes) + value

const (
	Version         = uint32(1)
	HeaderSize      = 32
	DefaultFPRate   = 0.01
	// MaxRecordLength bounds a single key or value. Open rejects longer
	// records, so Write refuses to produce them.
	MaxRecordLength = 64 * 1024 * 1024
	// preallocLimit caps the slots reserved from the header's record count.
	preallocLimit = 1 << 16
)

var magic = [8]byte{'A', 'V', 'L', 'M', 'S', 'E', 'G', '1'}

var (
	ErrBadMagic       = errors.New("segment: invalid file format")
	ErrBadVersion     = errors.New("segment: unsupported file version")
	ErrUnsorted       = errors.New("segment: entries are not strictly ascending")
	ErrRecordTooLarge = errors.New("segment: record exceeds maximum length")
)

// Entry is one persisted key-value pair.
type Entry = avl.Entry[string, []byte]

// Options sizes the bloom filter. Zero values size it from the record
// count for a DefaultFPRate false-positive rate.
type Options struct {
	BloomBits   uint
	BloomHashes uint
}

type header struct {
	Magic    [8]byte
	Version  uint32
	Count    uint32
	Created  int64
	Reserved [8]byte
}

// Reader is an opened segment. All records are held in memory; it is safe
// for concurrent use since nothing mutates it after Open.
type Reader struct {
	path    string
	created time.Time
	size    int64
	filter  *bloom.BloomFilter
	keys    []string
	values  [][]byte
}

func newFilter(n int, opts Options) *bloom.BloomFilter {
	if opts.BloomBits > 0 && opts.BloomHashes > 0 {
		return bloom.New(opts.BloomBits, opts.BloomHashes)
	}
	if n == 0 {
		n = 1
	}
	return bloom.NewWithEstimates(uint(n), DefaultFPRate)
}

// Write persists entries, which must be strictly ascending, to path and
// returns a Reader over them. The file is written under a temporary name
// and renamed into place once synced.
func Write(path string, entries []Entry, opts Options) (*Reader, error) {
	for i, e := range entries {
		if err := CheckRecord(e.Key, e.Value); err != nil {
			return nil, err
		}
		if i > 0 && entries[i-1].Key >= e.Key {
			return nil, fmt.Errorf("%w: %q before %q", ErrUnsorted, entries[i-1].Key, e.Key)
		}
	}

	r := &Reader{
		path:    path,
		created: time.Now(),
		filter:  newFilter(len(entries), opts),
		keys:    make([]string, 0, len(entries)),
		values:  make([][]byte, 0, len(entries)),
	}
	for _, e := range entries {
		r.filter.AddString(e.Key)
		r.keys = append(r.keys, e.Key)
		r.values = append(r.values, e.Value)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment file: %v", err)
	}

	if err := r.writeTo(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write segment %s: %v", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to sync segment %s: %v", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to install segment %s: %v", path, err)
	}

	if info, err := os.Stat(path); err == nil {
		r.size = info.Size()
	}
	return r, nil
}

func (r *Reader) writeTo(file io.Writer) error {
	w := bufio.NewWriter(file)

	hdr := header{
		Magic:   magic,
		Version: Version,
		Count:   uint32(len(r.keys)),
		Created: r.created.UnixNano(),
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}

	if _, err := r.filter.WriteTo(w); err != nil {
		return err
	}

	for i, key := range r.keys {
		if err := writeBytes(w, []byte(key)); err != nil {
			return err
		}
		if err := writeBytes(w, r.values[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// CheckRecord reports ErrRecordTooLarge when key or value could not be
// read back from a segment.
func CheckRecord(key string, value []byte) error {
	if len(key) > MaxRecordLength {
		return fmt.Errorf("%w: key of %d bytes", ErrRecordTooLarge, len(key))
	}
	if len(value) > MaxRecordLength {
		return fmt.Errorf("%w: value of %d bytes for key %.32q", ErrRecordTooLarge, len(value), key)
	}
	return nil
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > MaxRecordLength {
		return nil, fmt.Errorf("%w: length %d", ErrRecordTooLarge, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Open loads the segment at path into memory.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open segment file: %v", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(file)

	var hdr header
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadMagic, path, err)
	}
	if hdr.Magic != magic {
		return nil, fmt.Errorf("%w: %s", ErrBadMagic, path)
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, hdr.Version)
	}

	// The count is not trusted for allocation, append grows past the cap.
	capacity := min(int(hdr.Count), preallocLimit)
	r := &Reader{
		path:    path,
		created: time.Unix(0, hdr.Created),
		size:    info.Size(),
		filter:  new(bloom.BloomFilter),
		keys:    make([]string, 0, capacity),
		values:  make([][]byte, 0, capacity),
	}

	if _, err := r.filter.ReadFrom(br); err != nil {
		return nil, fmt.Errorf("failed to restore bloom filter: %v", err)
	}

	for i := uint32(0); i < hdr.Count; i++ {
		key, err := readBytes(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read key %d of %s: %v", i, path, err)
		}
		value, err := readBytes(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read value %d of %s: %v", i, path, err)
		}
		r.keys = append(r.keys, string(key))
		r.values = append(r.values, value)
	}

	return r, nil
}

func (r *Reader) Path() string {
	return r.path
}

// Created returns when the segment was written.
func (r *Reader) Created() time.Time {
	return r.created
}

// Size returns the file size in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// Len returns the number of records.
func (r *Reader) Len() int {
	return len(r.keys)
}

// MayContain consults only the bloom filter.
func (r *Reader) MayContain(key string) bool {
	return r.filter.TestString(key)
}

func (r *Reader) Get(key string) ([]byte, bool) {
	if !r.MayContain(key) {
		return nil, false
	}
	i := sort.SearchStrings(r.keys, key)
	if i < len(r.keys) && r.keys[i] == key {
		return r.values[i], true
	}
	return nil, false
}

// AscendRange calls fn for keys in [greaterOrEqual, lessThan) until fn
// returns false. An empty lessThan leaves the range open.
func (r *Reader) AscendRange(greaterOrEqual, lessThan string, fn func(key string, value []byte) bool) {
	for i := sort.SearchStrings(r.keys, greaterOrEqual); i < len(r.keys); i++ {
		if lessThan != "" && r.keys[i] >= lessThan {
			return
		}
		if !fn(r.keys[i], r.values[i]) {
			return
		}
	}
}
