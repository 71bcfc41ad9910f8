// Package erasure implements Reed-Solomon erasure coding over GF(2^8):
// systematic encoding of a byte payload into k data shards and m parity
// shards such that any k of the k+m shards reconstruct the payload.
package erasure

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// DefaultShardSize is used when an EncodingConfig is built without an
// explicit shard size.
const DefaultShardSize = 8192

// MaxTotalShards is the largest value data_shards + parity_shards may
// take: GF(2^8) has only 256 possible evaluation points.
const MaxTotalShards = 256

var (
	// ErrInvalidConfiguration covers all EncodingConfig construction and
	// cross-shard metadata validation failures.
	ErrInvalidConfiguration = errors.New("erasure: invalid configuration")

	// ErrEmptyInput is returned when Encode is given a zero-length payload.
	ErrEmptyInput = errors.New("erasure: input data must not be empty")

	// ErrInsufficientShards is returned when fewer than k shards are
	// available for some chunk.
	ErrInsufficientShards = errors.New("erasure: insufficient shards to reconstruct chunk")

	// ErrCorruptedShards is returned when the reconstructed payload's
	// checksum does not match the shard metadata.
	ErrCorruptedShards = errors.New("erasure: checksum mismatch after reconstruction")

	// ErrMathError signals a zero-pivot during Gauss-Jordan elimination of
	// a Vandermonde minor that should have been invertible; treated as a
	// corruption signal.
	ErrMathError = errors.New("erasure: matrix inversion failed (corrupted shard set)")
)

// EncodingConfig is an immutable description of an RS code: k data
// shards, m parity shards, and the shard (chunk column) size in bytes.
type EncodingConfig struct {
	DataShards   int
	ParityShards int
	ShardSize    int
}

// NewEncodingConfig validates and returns an EncodingConfig. shardSize of
// 0 uses DefaultShardSize.
func NewEncodingConfig(dataShards, parityShards, shardSize int) (EncodingConfig, error) {
	if shardSize == 0 {
		shardSize = DefaultShardSize
	}
	cfg := EncodingConfig{DataShards: dataShards, ParityShards: parityShards, ShardSize: shardSize}
	if err := cfg.validate(); err != nil {
		return EncodingConfig{}, err
	}
	return cfg, nil
}

func (c EncodingConfig) validate() error {
	if c.DataShards < 1 || c.DataShards > 255 {
		return fmt.Errorf("%w: data_shards must be in [1,255], got %d", ErrInvalidConfiguration, c.DataShards)
	}
	if c.ParityShards < 1 || c.ParityShards > 255 {
		return fmt.Errorf("%w: parity_shards must be in [1,255], got %d", ErrInvalidConfiguration, c.ParityShards)
	}
	if c.TotalShards() > MaxTotalShards {
		return fmt.Errorf("%w: data_shards+parity_shards must be <= %d, got %d",
			ErrInvalidConfiguration, MaxTotalShards, c.TotalShards())
	}
	if c.ShardSize < 1 {
		return fmt.Errorf("%w: shard_size must be >= 1, got %d", ErrInvalidConfiguration, c.ShardSize)
	}
	return nil
}

// TotalShards returns DataShards + ParityShards.
func (c EncodingConfig) TotalShards() int {
	return c.DataShards + c.ParityShards
}

func (c EncodingConfig) equal(o EncodingConfig) bool {
	return c.DataShards == o.DataShards && c.ParityShards == o.ParityShards && c.ShardSize == o.ShardSize
}

// ShardMetadata is shared, byte-for-byte identical, across every shard
// produced by one Encode call.
type ShardMetadata struct {
	OriginalSize uint64
	Config       EncodingConfig
	Checksum     string // hex(SHA-256(original))
	Timestamp    time.Time
	ChunkIndex   *int // present when the caller wants per-chunk bookkeeping
}

func newShardMetadata(data []byte, cfg EncodingConfig) ShardMetadata {
	sum := sha256.Sum256(data)
	return ShardMetadata{
		OriginalSize: uint64(len(data)),
		Config:       cfg,
		Checksum:     hex.EncodeToString(sum[:]),
		Timestamp:    time.Now(),
	}
}

func (m ShardMetadata) equalIgnoringTimestamp(o ShardMetadata) bool {
	return m.OriginalSize == o.OriginalSize && m.Config.equal(o.Config) && m.Checksum == o.Checksum
}

// Shard is one immutable data or parity block produced by Encode.
type Shard struct {
	Index    uint32
	Data     []byte
	Metadata ShardMetadata
}

// IsDataShard reports whether this shard holds original payload bytes
// rather than computed parity.
func (s Shard) IsDataShard() bool {
	within := int(s.Index) % s.Metadata.Config.TotalShards()
	return within < s.Metadata.Config.DataShards
}

// ResultKind tags the outcome of a Decode call.
type ResultKind int

// Decode outcome kinds.
const (
	ResultSuccess ResultKind = iota
	ResultFailure
	ResultPartial
)

// ReconstructionResult is the tagged-union result of Decode.
type ReconstructionResult struct {
	Kind ResultKind

	// Data holds the reconstructed payload when Kind == ResultSuccess, or
	// the partially recovered bytes when Kind == ResultPartial.
	Data []byte

	// TotalBytes is set alongside ResultPartial: the full expected size.
	TotalBytes uint64

	// Err is set when Kind == ResultFailure.
	Err error
}

// Success reports whether the decode fully succeeded.
func (r ReconstructionResult) Success() bool {
	return r.Kind == ResultSuccess
}

// CanReconstruct is a cheap pre-flight check: are there at least k
// shards available? This does not validate per-chunk distribution.
func CanReconstruct(shards []Shard, cfg EncodingConfig) bool {
	return len(shards) >= cfg.DataShards
}
