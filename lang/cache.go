package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache maps a source and options key to its *state.
//
//nolint:gochecknoglobals
var programCache sync.Map

// state holds the single parse of one cached source.
type state struct {
	once     sync.Once
	source   string
	maxDepth int
	prog     *Program
	err      error
}

// matches reports whether the entry was parsed from source under cfg.
func (s *state) matches(source string, cfg config) bool {
	return s.source == source && s.maxDepth == cfg.maxDepth
}

// hashOptions encodes the options that shape the tree using gob and hashes
// them with xxh3.
func hashOptions(c config) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(c.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader reads all of r and parses it like [Parse]. Results are cached
// by content, so parsing the same source again returns the same *Program.
// Cached programs are shared and must not be modified. Failed parses are not
// cached.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return parseCached(ctx, string(data), cfg, opts)
}

func parseCached(
	ctx context.Context,
	source string,
	cfg config,
	opts []Option,
) (*Program, error) {
	key, sourceHash, optsHash := cacheKey(source, cfg)

	value, hit := programCache.LoadOrStore(key, &state{source: source, maxDepth: cfg.maxDepth})

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.With(slog.String("issue", "invalid cache entry"))
	}

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	if !entry.matches(source, cfg) {
		cfg.logger.DebugContext(ctx, "cache key collision, parsing uncached",
			slog.String("key", key),
		)

		return Parse(ctx, source, opts...)
	}

	entry.once.Do(func() {
		entry.prog, entry.err = Parse(ctx, source, opts...)
	})

	if entry.err != nil {
		programCache.CompareAndDelete(key, entry)

		return nil, entry.err
	}

	return entry.prog, nil
}

// cacheKey returns the cache key of source parsed under cfg along with the
// hashes it is built from.
func cacheKey(source string, cfg config) (key string, sourceHash, optsHash uint64) {
	sourceHash = xxh3.HashString(source)
	optsHash = hashOptions(cfg)

	return strconv.FormatUint(sourceHash^optsHash, 36), sourceHash, optsHash
}

// ClearCache removes all cached programs.
func ClearCache() {
	programCache.Clear()
}
