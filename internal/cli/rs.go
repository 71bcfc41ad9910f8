package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/strata/internal/erasure"
	"github.com/mrz1836/strata/internal/fileutil"
	"github.com/mrz1836/strata/internal/output"
	"github.com/mrz1836/strata/internal/secure"
	"github.com/mrz1836/strata/internal/vault"
	strataerr "github.com/mrz1836/strata/pkg/errors"
)

// shardBundleVersion identifies the JSON shard bundle layout written by
// rsEncodeCmd and read by rsDecodeCmd/rsVerifyCmd/rsShardsCmd.
const shardBundleVersion = 1

// shardBundle is the on-disk form of a full shard set produced by one
// erasure.Encode call: a JSON array of self-describing wire records.
type shardBundle struct {
	Version int           `json:"version"`
	Shards  []shardRecord `json:"shards"`
}

// shardRecord mirrors one erasure.Shard: index, shard_size, data, and the
// metadata trailer (original_size, config, checksum).
type shardRecord struct {
	Index        uint32    `json:"index"`
	Data         string    `json:"data"`
	OriginalSize uint64    `json:"original_size"`
	DataShards   int       `json:"data_shards"`
	ParityShards int       `json:"parity_shards"`
	ShardSize    int       `json:"shard_size"`
	Checksum     string    `json:"checksum"`
	Timestamp    time.Time `json:"timestamp"`
}

func toShardRecords(shards []erasure.Shard) []shardRecord {
	records := make([]shardRecord, len(shards))
	for i, sh := range shards {
		records[i] = shardRecord{
			Index:        sh.Index,
			Data:         base64.StdEncoding.EncodeToString(sh.Data),
			OriginalSize: sh.Metadata.OriginalSize,
			DataShards:   sh.Metadata.Config.DataShards,
			ParityShards: sh.Metadata.Config.ParityShards,
			ShardSize:    sh.Metadata.Config.ShardSize,
			Checksum:     sh.Metadata.Checksum,
			Timestamp:    sh.Metadata.Timestamp,
		}
	}
	return records
}

func fromShardRecords(records []shardRecord) ([]erasure.Shard, error) {
	shards := make([]erasure.Shard, len(records))
	for i, r := range records {
		data, err := base64.StdEncoding.DecodeString(r.Data)
		if err != nil {
			return nil, fmt.Errorf("shard %d: decoding data: %w", r.Index, err)
		}
		cfg := erasure.EncodingConfig{
			DataShards:   r.DataShards,
			ParityShards: r.ParityShards,
			ShardSize:    r.ShardSize,
		}
		shards[i] = erasure.Shard{
			Index: r.Index,
			Data:  data,
			Metadata: erasure.ShardMetadata{
				OriginalSize: r.OriginalSize,
				Config:       cfg,
				Checksum:     r.Checksum,
				Timestamp:    r.Timestamp,
			},
		}
	}
	return shards, nil
}

// rsCmd is the parent command for Reed-Solomon erasure coding operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rsCmd = &cobra.Command{
	Use:   "rs",
	Short: "Reed-Solomon erasure coding",
	Long:  `Split data into recoverable shards, and reconstruct it from a subset of them.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	rsDataShards  int
	rsParity      int
	rsShardSize   int
	rsOutput      string
	rsProtect     bool
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rsEncodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Split a file into Reed-Solomon shards",
	Long: `Encode reads a file and splits it into data_shards + parity_shards
shards, writing the result as a single bundle file that can later be
decoded from any data_shards of those shards.`,
	Example: `  strata rs encode payload.bin --data 4 --parity 2 --output payload.shards
  strata rs encode payload.bin --output payload.shards --protect`,
	Args: cobra.ExactArgs(1),
	RunE: runRSEncode,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rsDecodeCmd = &cobra.Command{
	Use:   "decode <bundle>",
	Short: "Reconstruct a file from a shard bundle",
	Long: `Decode reads a shard bundle previously written by "rs encode" and
reconstructs the original file, failing if fewer than data_shards shards
are present for any chunk or the reconstructed checksum does not match.`,
	Example: `  strata rs decode payload.shards --output payload.bin`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRSDecode,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rsVerifyCmd = &cobra.Command{
	Use:   "verify <bundle>",
	Short: "Check whether a shard bundle can be reconstructed",
	Long: `Verify performs a cheap pre-flight check: at least data_shards shards
must be present. It does not attempt a full decode or checksum
verification.`,
	Example: `  strata rs verify payload.shards`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRSVerify,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rsShardsCmd = &cobra.Command{
	Use:   "shards <bundle>",
	Short: "List the shards in a bundle",
	Long: `Shards prints the index, size, and metadata for every shard stored
in a bundle file.`,
	Example: `  strata rs shards payload.shards`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRSShards,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(rsCmd)
	rsCmd.AddCommand(rsEncodeCmd)
	rsCmd.AddCommand(rsDecodeCmd)
	rsCmd.AddCommand(rsVerifyCmd)
	rsCmd.AddCommand(rsShardsCmd)

	rsEncodeCmd.Flags().IntVar(&rsDataShards, "data", 0, "number of data shards (default from config)")
	rsEncodeCmd.Flags().IntVar(&rsParity, "parity", 0, "number of parity shards (default from config)")
	rsEncodeCmd.Flags().IntVar(&rsShardSize, "shard-size", 0, "shard size in bytes (default from config)")
	rsEncodeCmd.Flags().StringVarP(&rsOutput, "output", "O", "", "bundle output path (default: <file>.shards)")
	rsEncodeCmd.Flags().BoolVar(&rsProtect, "protect", false, "encrypt the bundle with a password")

	rsDecodeCmd.Flags().StringVarP(&rsOutput, "output", "O", "", "reconstructed file output path (default: <bundle> without .shards)")
}

func runRSEncode(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	log := cmdLogger(cmd)

	// #nosec G304 -- path is an explicit CLI argument
	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Error("reading %s: %v", inputPath, err)
		return strataerr.Wrap(err, "reading input file")
	}

	encCfg, err := resolveEncodingConfig()
	if err != nil {
		return err
	}

	log.Debug("encoding %s: %d bytes, %d data shards, %d parity shards", inputPath, len(data), encCfg.DataShards, encCfg.ParityShards)

	shards, err := erasure.Encode(data, encCfg)
	if err != nil {
		log.Error("encoding %s: %v", inputPath, err)
		return strataerr.FromErasure(err)
	}

	payload, err := json.Marshal(shardBundle{Version: shardBundleVersion, Shards: toShardRecords(shards)})
	if err != nil {
		return strataerr.Wrap(err, "marshaling shard bundle")
	}

	if rsProtect {
		password, perr := promptNewPasswordFn()
		if perr != nil {
			return perr
		}
		defer secure.Zero(password)

		payload, err = vault.Seal(payload, string(password))
		if err != nil {
			return strataerr.Wrap(err, "encrypting shard bundle")
		}
	}

	outPath := rsOutput
	if outPath == "" {
		outPath = inputPath + ".shards"
	}

	if err := fileutil.WriteAtomic(outPath, payload, 0o600); err != nil {
		log.Error("writing %s: %v", outPath, err)
		return strataerr.Wrap(err, "writing shard bundle")
	}

	log.Debug("wrote shard bundle %s", outPath)

	w := cmd.OutOrStdout()
	out(w, "Encoded %d bytes into %d shards (%d data, %d parity)\n",
		len(data), len(shards), encCfg.DataShards, encCfg.ParityShards)
	out(w, "Wrote %s\n", outPath)

	return nil
}

func runRSDecode(cmd *cobra.Command, args []string) error {
	bundlePath := args[0]
	log := cmdLogger(cmd)

	shards, err := loadShardBundle(bundlePath)
	if err != nil {
		log.Error("loading %s: %v", bundlePath, err)
		return err
	}

	log.Debug("reconstructing from %s: %d shards available", bundlePath, len(shards))

	result := erasure.Decode(shards)
	if !result.Success() {
		log.Error("reconstructing %s: %v", bundlePath, result.Err)
		return strataerr.FromErasure(result.Err)
	}

	outPath := rsOutput
	if outPath == "" {
		outPath = trimBundleExt(bundlePath, ".shards")
	}

	if err := fileutil.WriteAtomic(outPath, result.Data, 0o600); err != nil {
		log.Error("writing %s: %v", outPath, err)
		return strataerr.Wrap(err, "writing reconstructed file")
	}

	log.Debug("wrote reconstructed file %s", outPath)

	w := cmd.OutOrStdout()
	out(w, "Reconstructed %d bytes\n", len(result.Data))
	out(w, "Wrote %s\n", outPath)

	return nil
}

func runRSVerify(cmd *cobra.Command, args []string) error {
	shards, err := loadShardBundle(args[0])
	if err != nil {
		return err
	}
	if len(shards) == 0 {
		return strataerr.WithSuggestion(strataerr.ErrInvalidInput, "bundle contains no shards")
	}

	cfg := shards[0].Metadata.Config
	ok := erasure.CanReconstruct(shards, cfg)

	w := cmd.OutOrStdout()
	if formatter != nil && formatter.Format() == output.FormatJSON {
		return writeJSON(w, map[string]any{
			"can_reconstruct": ok,
			"shards_present":  len(shards),
			"data_shards":     cfg.DataShards,
		})
	}

	if ok {
		out(w, "OK: %d shards present, %d required\n", len(shards), cfg.DataShards)
	} else {
		out(w, "INSUFFICIENT: %d shards present, %d required\n", len(shards), cfg.DataShards)
	}

	return nil
}

func runRSShards(cmd *cobra.Command, args []string) error {
	shards, err := loadShardBundle(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter != nil && formatter.Format() == output.FormatJSON {
		return writeJSON(w, toShardRecords(shards))
	}

	table := output.NewTable("Index", "Bytes", "Data", "Original Size", "Checksum")
	for _, sh := range shards {
		table.AddRow(
			strconv.FormatUint(uint64(sh.Index), 10),
			strconv.Itoa(len(sh.Data)),
			strconv.FormatBool(sh.IsDataShard()),
			strconv.FormatUint(sh.Metadata.OriginalSize, 10),
			sh.Metadata.Checksum,
		)
	}

	return table.Render(w)
}

// resolveEncodingConfig builds an erasure.EncodingConfig from CLI flags,
// falling back to the configured RS defaults for any flag left at zero.
func resolveEncodingConfig() (erasure.EncodingConfig, error) {
	dataShards := rsDataShards
	if dataShards == 0 {
		dataShards = cfg.RS.DataShards
	}
	parityShards := rsParity
	if parityShards == 0 {
		parityShards = cfg.RS.ParityShards
	}
	shardSize := rsShardSize
	if shardSize == 0 {
		shardSize = cfg.RS.ShardSize
	}

	encCfg, err := erasure.NewEncodingConfig(dataShards, parityShards, shardSize)
	if err != nil {
		return erasure.EncodingConfig{}, strataerr.FromErasure(err)
	}
	return encCfg, nil
}

// loadShardBundle reads a bundle file written by "rs encode", transparently
// decrypting it with a prompted password when it is not valid JSON (i.e.
// was written with --protect).
func loadShardBundle(path string) ([]erasure.Shard, error) {
	// #nosec G304 -- path is an explicit CLI argument
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, strataerr.Wrap(err, "reading shard bundle")
	}

	var bundle shardBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		password, perr := promptPasswordFn("Enter vault password: ")
		if perr != nil {
			return nil, perr
		}
		defer secure.Zero(password)

		plaintext, oerr := vault.Open(raw, string(password))
		if oerr != nil {
			return nil, strataerr.WithSuggestion(strataerr.ErrDecryptionFailed, "check the password and try again")
		}

		if jerr := json.Unmarshal(plaintext, &bundle); jerr != nil {
			return nil, strataerr.Wrap(jerr, "parsing shard bundle")
		}
	}

	return fromShardRecords(bundle.Shards)
}

// trimBundleExt strips suffix from path if present, otherwise appends
// ".out" so decode/combine never silently overwrite the bundle itself.
func trimBundleExt(path, suffix string) string {
	if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
		return path[:len(path)-len(suffix)]
	}
	return path + ".out"
}
