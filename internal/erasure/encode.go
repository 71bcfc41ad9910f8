package erasure

import (
	"github.com/mrz1836/strata/internal/polynomial"
)

// Encode splits data into systematic Reed-Solomon shards under cfg:
// data is padded to a multiple of the shard size, split into
// k*shard_size chunks, and each chunk yields k data shards plus m parity
// shards computed by dividing the per-column message polynomial by the
// degree-m generator polynomial.
func Encode(data []byte, cfg EncodingConfig) ([]Shard, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	meta := newShardMetadata(data, cfg)

	k, m, s := cfg.DataShards, cfg.ParityShards, cfg.ShardSize
	padded := padToMultiple(data, s)

	chunkSize := k * s
	padded = padToMultiple(padded, chunkSize)
	numChunks := len(padded) / chunkSize

	gen := polynomial.Generator(m)
	total := cfg.TotalShards()

	shards := make([]Shard, 0, numChunks*total)

	for c := 0; c < numChunks; c++ {
		chunk := padded[c*chunkSize : (c+1)*chunkSize]

		dataCols := make([][]byte, k)
		for j := 0; j < k; j++ {
			dataCols[j] = chunk[j*s : (j+1)*s]
		}

		for j := 0; j < k; j++ {
			shards = append(shards, Shard{
				Index:    uint32(c*total + j),
				Data:     append([]byte(nil), dataCols[j]...),
				Metadata: meta,
			})
		}

		parityCols := make([][]byte, m)
		for p := 0; p < m; p++ {
			parityCols[p] = make([]byte, s)
		}

		column := make([]byte, k)
		for b := 0; b < s; b++ {
			for j := 0; j < k; j++ {
				column[j] = dataCols[j][b]
			}
			parity := encodeColumn(column, gen, k, m)
			for p := 0; p < m; p++ {
				parityCols[p][b] = parity[p]
			}
		}

		for p := 0; p < m; p++ {
			shards = append(shards, Shard{
				Index:    uint32(c*total + k + p),
				Data:     parityCols[p],
				Metadata: meta,
			})
		}
	}

	return shards, nil
}

// encodeColumn computes the m systematic parity symbols for k data
// symbols using generator polynomial gen (degree m). The working buffer
// places the data symbols in the high k positions [m, m+k) and reduces by
// gen; the low m positions of the remainder are the parity symbols.
func encodeColumn(data []byte, gen polynomial.Polynomial, k, m int) []byte {
	buf := make(polynomial.Polynomial, k+m)
	for j := 0; j < k; j++ {
		buf[m+j] = data[j]
	}

	// gen always has a non-zero leading coefficient (it is monic by
	// construction), so DivMod cannot fail here.
	_, rem, _ := polynomial.DivMod(buf, gen)

	parity := make([]byte, m)
	copy(parity, rem)
	return parity
}

// padToMultiple right-pads data with zero bytes to the next multiple of n
// (n must be >= 1). Returns a new slice; the original is never mutated.
func padToMultiple(data []byte, n int) []byte {
	rem := len(data) % n
	if rem == 0 {
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}
	padLen := n - rem
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	return out
}
