// Package bloom provides fingerprint deduplication backed by Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/munifin"
)

// DefaultCapacity is the number of fingerprints a Set is sized for.
const DefaultCapacity = 10000

// DefaultFalsePositiveRate is the false positive rate a Set is sized for.
const DefaultFalsePositiveRate = 0.001

// Filter wraps a Bloom filter of strings.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds s to the filter.
func (f *Filter) Add(s string) {
	f.f.AddString(s)
}

// Test returns true if s might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(s string) bool {
	return f.f.TestString(s)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Ensure Set implements munifin.FingerprintSet at compile time.
var _ munifin.FingerprintSet = (*Set)(nil)

// Set is an exact fingerprint set. The Bloom filter answers most first
// sightings, so the exact table is only probed for probable repeats.
// Set is safe for concurrent use.
type Set struct {
	mu       sync.Mutex
	filter   *Filter
	seen     map[string]struct{}
	probes   int
	repeated int
}

// NewSet creates a Set sized for n fingerprints.
func NewSet(n uint) *Set {
	if n == 0 {
		n = DefaultCapacity
	}
	return &Set{
		filter: NewFilter(n, DefaultFalsePositiveRate),
		seen:   make(map[string]struct{}, n),
	}
}

// Add records fp and reports whether it was not yet in the set.
func (s *Set) Add(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.Test(fp) {
		s.probes++
		if _, ok := s.seen[fp]; ok {
			s.repeated++
			return false
		}
	}
	s.filter.Add(fp)
	s.seen[fp] = struct{}{}
	return true
}

// Preload records fingerprints seen in earlier runs, e.g. loaded from
// storage, so that Add reports them as repeats.
func (s *Set) Preload(fps []string) {
	for _, fp := range fps {
		s.Add(fp)
	}
}

// Len returns the number of distinct fingerprints in the set.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// FalsePositives returns how often the Bloom filter reported a fingerprint
// that the exact table did not contain.
func (s *Set) FalsePositives() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probes - s.repeated
}
