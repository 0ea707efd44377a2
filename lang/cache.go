package lang

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// DefaultCacheCapacity is the number of distinct sources each memo table holds
// before it is emptied.
const DefaultCacheCapacity = 4096

var (
	// programCache memoizes TokenizeProgram by source text.
	programCache = newMemo[[]Statement](DefaultCacheCapacity)

	// exprCache memoizes the parsed items of an expression by source text.
	exprCache = newMemo[[]Value](DefaultCacheCapacity)
)

// memo is a bounded table of results derived from source text. Entries are
// keyed by the xxh3 hash of the source and verified against the stored source
// so that a hash collision degrades to a miss.
type memo[T any] struct {
	entries map[uint64]memoEntry[T]
	limit   int
	mu      sync.Mutex
}

type memoEntry[T any] struct {
	value  T
	source string
}

func newMemo[T any](limit int) *memo[T] {
	return &memo[T]{entries: make(map[uint64]memoEntry[T]), limit: limit}
}

// get returns the result for source, calling build on a miss. The returned
// value is shared and must not be modified.
func (m *memo[T]) get(source string, build func(string) T) (T, bool) {
	key := xxh3.HashString(source)

	m.mu.Lock()
	entry, ok := m.entries[key]
	m.mu.Unlock()

	if ok && entry.source == source {
		return entry.value, true
	}

	value := build(source)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.limit {
		clear(m.entries)
	}

	m.entries[key] = memoEntry[T]{value: value, source: source}

	return value, false
}

func (m *memo[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *memo[T]) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.entries)
}

// statements returns the memoized statements of a program.
func statements(source string) ([]Statement, bool) {
	return programCache.get(source, TokenizeProgram)
}

// items returns the memoized parsed items of an expression.
func items(source string) ([]Value, bool) {
	return exprCache.get(source, func(s string) []Value {
		return ParseAll(TokenizeExpr(s))
	})
}

// ClearCache empties the tokenization caches.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	programCache.reset()
	exprCache.reset()
}

// ReadSource reads all program text from r.
func ReadSource(ctx context.Context, r io.Reader) (string, error) {
	// Wrap reader with async read-ahead so large scripts are fetched while
	// earlier chunks are being copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	if err := ctx.Err(); err != nil {
		return "", ErrReadInput.Wrap(err).With(slog.Int("bytes", len(data)))
	}

	return string(data), nil
}
