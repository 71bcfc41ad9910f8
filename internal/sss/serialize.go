package sss

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EncodeMetadata serialises m into a compact base64 text form: a
// base64 string wrapping six pipe-separated fields (threshold |
// total_shares | secret_size | base64(secret_hash) | epoch_millis |
// share_set_id), so shares can be persisted alongside their X/Y values in
// a text-based bundle.
func EncodeMetadata(m ShareMetadata) string {
	fields := strings.Join([]string{
		strconv.Itoa(m.Threshold),
		strconv.Itoa(m.TotalShares),
		strconv.Itoa(m.SecretSize),
		base64.StdEncoding.EncodeToString(m.SecretHash[:]),
		strconv.FormatInt(m.Timestamp.UnixMilli(), 10),
		m.ShareSetID,
	}, "|")
	return base64.StdEncoding.EncodeToString([]byte(fields))
}

// DecodeMetadata parses the text form produced by EncodeMetadata. It
// rejects any input that does not decode to exactly six pipe-separated
// fields or whose secret hash is not exactly 32 bytes.
func DecodeMetadata(encoded string) (ShareMetadata, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ShareMetadata{}, fmt.Errorf("%w: not valid base64: %v", ErrInvalidShare, err)
	}

	fields := strings.Split(string(raw), "|")
	if len(fields) != 6 {
		return ShareMetadata{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidShare, len(fields))
	}

	threshold, err := strconv.Atoi(fields[0])
	if err != nil {
		return ShareMetadata{}, fmt.Errorf("%w: invalid threshold: %v", ErrInvalidShare, err)
	}
	totalShares, err := strconv.Atoi(fields[1])
	if err != nil {
		return ShareMetadata{}, fmt.Errorf("%w: invalid total_shares: %v", ErrInvalidShare, err)
	}
	secretSize, err := strconv.Atoi(fields[2])
	if err != nil {
		return ShareMetadata{}, fmt.Errorf("%w: invalid secret_size: %v", ErrInvalidShare, err)
	}

	hash, err := base64.StdEncoding.DecodeString(fields[3])
	if err != nil {
		return ShareMetadata{}, fmt.Errorf("%w: invalid secret_hash: %v", ErrInvalidShare, err)
	}
	if len(hash) != 32 {
		return ShareMetadata{}, fmt.Errorf("%w: secret_hash must be 32 bytes, got %d", ErrInvalidShare, len(hash))
	}

	millis, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return ShareMetadata{}, fmt.Errorf("%w: invalid epoch_millis: %v", ErrInvalidShare, err)
	}

	meta := ShareMetadata{
		Threshold:   threshold,
		TotalShares: totalShares,
		SecretSize:  secretSize,
		Timestamp:   time.UnixMilli(millis).UTC(),
		ShareSetID:  fields[5],
	}
	copy(meta.SecretHash[:], hash)

	return meta, nil
}
