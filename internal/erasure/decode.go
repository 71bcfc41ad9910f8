package erasure

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/mrz1836/strata/internal/polynomial"
)

// Decode reconstructs the original payload from a set of shards produced
// by one Encode call. Shards are grouped by chunk via
// index / total_shards; each chunk needs at least data_shards distinct
// shards. When all k data shards of a chunk are present they are
// concatenated directly; otherwise the k+m systematic linear map is
// inverted against the present shards to recover the missing data
// symbols column by column.
func Decode(shards []Shard) ReconstructionResult {
	if len(shards) == 0 {
		return ReconstructionResult{Kind: ResultFailure, Err: ErrInsufficientShards}
	}

	cfg := shards[0].Metadata.Config
	meta := shards[0].Metadata
	for _, sh := range shards[1:] {
		if !sh.Metadata.equalIgnoringTimestamp(meta) {
			return ReconstructionResult{Kind: ResultFailure, Err: ErrInvalidConfiguration}
		}
	}

	k, m, s := cfg.DataShards, cfg.ParityShards, cfg.ShardSize
	total := cfg.TotalShards()

	byChunk := make(map[int]map[int]Shard)
	for _, sh := range shards {
		chunk := int(sh.Index) / total
		within := int(sh.Index) % total
		bucket, ok := byChunk[chunk]
		if !ok {
			bucket = make(map[int]Shard)
			byChunk[chunk] = bucket
		}
		bucket[within] = sh
	}

	numChunks := expectedChunks(meta.OriginalSize, k, s)

	var gen polynomial.Polynomial
	var mat *polynomial.Matrix

	out := make([]byte, 0, numChunks*k*s)

	for c := 0; c < numChunks; c++ {
		bucket := byChunk[c]
		if len(bucket) < k {
			return ReconstructionResult{Kind: ResultFailure, Err: ErrInsufficientShards}
		}

		if allDataPresent(bucket, k) {
			for j := 0; j < k; j++ {
				out = append(out, bucket[j].Data...)
			}
			continue
		}

		if gen == nil {
			gen = polynomial.Generator(m)
			mat = columnMatrix(k, m, gen)
		}

		within := make([]int, 0, len(bucket))
		for w := range bucket {
			within = append(within, w)
		}
		sort.Ints(within)
		within = within[:k]

		rows := mat.SelectRows(within)
		inv, err := rows.Invert()
		if err != nil {
			return ReconstructionResult{Kind: ResultFailure, Err: ErrMathError}
		}

		selected := make([]Shard, k)
		for i, w := range within {
			selected[i] = bucket[w]
		}

		recovered := make([][]byte, k)
		for j := range recovered {
			recovered[j] = make([]byte, s)
		}

		symbols := make([]byte, k)
		for b := 0; b < s; b++ {
			for i, sh := range selected {
				symbols[i] = sh.Data[b]
			}
			data := inv.MulVector(symbols)
			for j := 0; j < k; j++ {
				recovered[j][b] = data[j]
			}
		}

		for j := 0; j < k; j++ {
			out = append(out, recovered[j]...)
		}
	}

	if uint64(len(out)) < meta.OriginalSize {
		return ReconstructionResult{Kind: ResultFailure, Err: ErrInsufficientShards}
	}
	out = out[:meta.OriginalSize]

	sum := sha256.Sum256(out)
	if hex.EncodeToString(sum[:]) != meta.Checksum {
		return ReconstructionResult{Kind: ResultFailure, Err: ErrCorruptedShards}
	}

	return ReconstructionResult{Kind: ResultSuccess, Data: out, TotalBytes: meta.OriginalSize}
}

func allDataPresent(bucket map[int]Shard, k int) bool {
	for j := 0; j < k; j++ {
		if _, ok := bucket[j]; !ok {
			return false
		}
	}
	return true
}

// expectedChunks mirrors Encode's padding arithmetic to recover how many
// chunks the original call must have produced, so a chunk with zero
// shards present is still recognized as missing rather than silently
// skipped.
func expectedChunks(originalSize uint64, k, s int) int {
	padded := int(originalSize)
	if rem := padded % s; rem != 0 {
		padded += s - rem
	}
	if padded == 0 {
		padded = s
	}
	chunkSize := k * s
	if rem := padded % chunkSize; rem != 0 {
		padded += chunkSize - rem
	}
	return padded / chunkSize
}
