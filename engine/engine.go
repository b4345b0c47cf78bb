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

// Package engine is a small single-process key-value store that buffers
// writes in an AVL memtable and persists it as sorted segment files once
// it reaches a size threshold.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cybrota/avlmem/avl"
	"github.com/cybrota/avlmem/segment"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultFlushThreshold = 1024
	segmentExt            = ".seg"
)

var ErrClosed = errors.New("engine: closed")

type Options struct {
	Dir             string
	FlushThreshold  int // memtable key count that triggers a flush
	BloomBits       uint
	BloomHashes     uint
	CacheExpiration time.Duration
	CacheCleanup    time.Duration
	Logger          *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.FlushThreshold <= 0 {
		o.FlushThreshold = DefaultFlushThreshold
	}
	if o.CacheExpiration <= 0 {
		o.CacheExpiration = DefaultCacheExpiration
	}
	if o.CacheCleanup <= 0 {
		o.CacheCleanup = DefaultCacheCleanup
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Stats is a point-in-time summary of the engine.
type Stats struct {
	MemKeys      int
	MemHeight    int
	Segments     int
	SegmentKeys  int
	SegmentBytes int64
	Flushes      int
	Threshold    int
}

// SegmentInfo describes one persisted segment.
type SegmentInfo struct {
	Path    string
	Keys    int
	Bytes   int64
	Created time.Time
}

// Engine owns the memtable and serializes access to it. Writers hold the
// lock across an insert and across the whole flush, write, clear sequence,
// so no reader sees a half-flushed state.
type Engine struct {
	mu       sync.RWMutex
	opts     Options
	mem      *avl.Tree[string, []byte]
	segments []*segment.Reader // oldest first
	nextSeq  int
	lookups  *cache.Cache
	logger   *zap.Logger
	flushes  int
	closed   bool
}

// Open prepares opts.Dir and loads the segments already in it.
func Open(opts Options) (*Engine, error) {
	opts.applyDefaults()
	if opts.Dir == "" {
		return nil, fmt.Errorf("engine: no data directory configured")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	e := &Engine{
		opts:    opts,
		mem:     avl.New[string, []byte](),
		nextSeq: 1,
		lookups: NewLookupCache(opts.CacheExpiration, opts.CacheCleanup),
		logger:  opts.Logger.With(zap.String("dir", opts.Dir)),
	}

	if err := e.loadSegments(); err != nil {
		return nil, err
	}

	e.logger.Info("engine opened",
		zap.Int("segments", len(e.segments)),
		zap.Int("flush_threshold", opts.FlushThreshold))
	return e, nil
}

func (e *Engine) loadSegments() error {
	paths, err := filepath.Glob(filepath.Join(e.opts.Dir, "*"+segmentExt))
	if err != nil {
		return err
	}

	type numbered struct {
		seq  int
		path string
	}
	var found []numbered
	for _, path := range paths {
		seq, err := strconv.Atoi(strings.TrimSuffix(filepath.Base(path), segmentExt))
		if err != nil {
			e.logger.Warn("skipping unrecognised segment name", zap.String("path", path))
			continue
		}
		found = append(found, numbered{seq: seq, path: path})
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].seq < found[j].seq
	})

	for _, f := range found {
		r, err := segment.Open(f.path)
		if err != nil {
			return fmt.Errorf("failed to load segment %s: %w", f.path, err)
		}
		e.segments = append(e.segments, r)
		e.nextSeq = f.seq + 1
		e.logger.Debug("segment loaded", zap.String("path", f.path), zap.Int("keys", r.Len()))
	}
	return nil
}

// Put stores value under key. The engine keeps value as given; callers
// must not modify it afterwards. A key or value longer than
// segment.MaxRecordLength is rejected with segment.ErrRecordTooLarge.
func (e *Engine) Put(key string, value []byte) error {
	if err := segment.CheckRecord(key, value); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	e.mem.Insert(key, value)
	e.lookups.Delete(key)

	if e.mem.ShouldFlush(e.opts.FlushThreshold) {
		return e.flushLocked()
	}
	return nil
}

// Get looks in the memtable first, then in segments from newest to oldest.
// The returned slice is a copy.
func (e *Engine) Get(key string) ([]byte, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if v, ok := e.mem.Get(key); ok {
		return bytes.Clone(v), true
	}
	if v, ok := getCachedLookup(e.lookups, key); ok {
		return bytes.Clone(v), true
	}
	for i := len(e.segments) - 1; i >= 0; i-- {
		if v, ok := e.segments[i].Get(key); ok {
			cacheLookup(e.lookups, key, v)
			return bytes.Clone(v), true
		}
	}
	return nil, false
}

// Scan returns the entries with keys in [greaterOrEqual, lessThan) in
// ascending order, newest value per key. An empty lessThan is unbounded.
// Values are copies.
func (e *Engine) Scan(greaterOrEqual, lessThan string) []avl.Entry[string, []byte] {
	e.mu.RLock()
	defer e.mu.RUnlock()

	merged := avl.New[string, []byte]()
	collect := func(key string, value []byte) bool {
		merged.Insert(key, bytes.Clone(value))
		return true
	}

	for _, seg := range e.segments {
		seg.AscendRange(greaterOrEqual, lessThan, collect)
	}
	if lessThan == "" {
		e.mem.AscendGreaterOrEqual(greaterOrEqual, collect)
	} else {
		e.mem.AscendRange(greaterOrEqual, lessThan, collect)
	}
	return merged.Flush()
}

// ScanPrefix returns every entry whose key starts with prefix.
func (e *Engine) ScanPrefix(prefix string) []avl.Entry[string, []byte] {
	return e.Scan(prefix, prefixEnd(prefix))
}

// prefixEnd returns the smallest string greater than every string with the
// given prefix, or "" when no such bound exists.
func prefixEnd(prefix string) string {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return string(end[:i+1])
		}
	}
	return ""
}

// Flush persists the memtable to a new segment and clears it. It is a
// no-op when the memtable is empty.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	return e.flushLocked()
}

func (e *Engine) flushLocked() error {
	if e.mem.IsEmpty() {
		return nil
	}

	start := time.Now()
	entries := e.mem.Flush()
	path := filepath.Join(e.opts.Dir, fmt.Sprintf("%06d%s", e.nextSeq, segmentExt))

	r, err := segment.Write(path, entries, segment.Options{
		BloomBits:   e.opts.BloomBits,
		BloomHashes: e.opts.BloomHashes,
	})
	if err != nil {
		// The memtable is kept so the data can be flushed again later
		e.logger.Error("flush failed", zap.String("path", path), zap.Error(err))
		return err
	}

	e.segments = append(e.segments, r)
	e.nextSeq++
	e.flushes++
	e.mem.Clear()
	e.lookups.Flush()

	e.logger.Info("memtable flushed",
		zap.String("path", path),
		zap.Int("keys", len(entries)),
		zap.Int64("bytes", r.Size()),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Stats{
		MemKeys:   e.mem.Len(),
		MemHeight: e.mem.Height(),
		Segments:  len(e.segments),
		Flushes:   e.flushes,
		Threshold: e.opts.FlushThreshold,
	}
	for _, seg := range e.segments {
		s.SegmentKeys += seg.Len()
		s.SegmentBytes += seg.Size()
	}
	return s
}

// Segments lists the persisted segments, oldest first.
func (e *Engine) Segments() []SegmentInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	infos := make([]SegmentInfo, 0, len(e.segments))
	for _, seg := range e.segments {
		infos = append(infos, SegmentInfo{
			Path:    seg.Path(),
			Keys:    seg.Len(),
			Bytes:   seg.Size(),
			Created: seg.Created(),
		})
	}
	return infos
}

// Close flushes whatever is buffered. The engine rejects writes afterwards.
// When the flush fails the engine stays open with the memtable intact, so
// Close or Flush can be retried.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if err := e.flushLocked(); err != nil {
		return err
	}
	e.closed = true
	e.lookups.Flush()
	e.logger.Info("engine closed", zap.Int("flushes", e.flushes))
	_ = e.logger.Sync()
	return nil
}
