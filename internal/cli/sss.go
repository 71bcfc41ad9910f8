package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/strata/internal/fileutil"
	"github.com/mrz1836/strata/internal/output"
	"github.com/mrz1836/strata/internal/secure"
	"github.com/mrz1836/strata/internal/sss"
	"github.com/mrz1836/strata/internal/vault"
	strataerr "github.com/mrz1836/strata/pkg/errors"
)

// shareBundleVersion identifies the JSON share bundle layout written by
// sssSplitCmd and read by sssCombineCmd/sssSharesCmd.
const shareBundleVersion = 1

// shareBundle is the on-disk form of a full share set produced by one
// sss.Split call.
type shareBundle struct {
	Version int           `json:"version"`
	Shares  []shareRecord `json:"shares"`
}

// shareRecord mirrors one sss.Share: the x-coordinate, the per-byte
// values, and the base64 metadata trailer.
type shareRecord struct {
	X        byte   `json:"x"`
	Y        string `json:"y"`
	Metadata string `json:"metadata"`
}

func toShareRecords(shares []sss.Share) []shareRecord {
	records := make([]shareRecord, len(shares))
	for i, sh := range shares {
		records[i] = shareRecord{
			X:        sh.X,
			Y:        base64.StdEncoding.EncodeToString(sh.Y),
			Metadata: sss.EncodeMetadata(sh.Metadata),
		}
	}
	return records
}

func fromShareRecords(records []shareRecord) ([]sss.Share, error) {
	shares := make([]sss.Share, len(records))
	for i, r := range records {
		y, err := base64.StdEncoding.DecodeString(r.Y)
		if err != nil {
			return nil, fmt.Errorf("share x=%d: decoding value: %w", r.X, err)
		}
		meta, err := sss.DecodeMetadata(r.Metadata)
		if err != nil {
			return nil, fmt.Errorf("share x=%d: decoding metadata: %w", r.X, err)
		}
		shares[i] = sss.Share{X: r.X, Y: y, Metadata: meta}
	}
	return shares, nil
}

// sssCmd is the parent command for Shamir secret sharing operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sssCmd = &cobra.Command{
	Use:   "sss",
	Short: "Shamir secret sharing",
	Long:  `Split a secret into shares, and reconstruct it from a threshold subset of them.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	sssThreshold int
	sssShares    int
	sssOutput    string
	sssProtect   bool
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sssSplitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a secret into Shamir shares",
	Long: `Split reads a file and divides it into total_shares shares such
that any threshold of them reconstruct it, writing the result as a
single bundle file.`,
	Example: `  strata sss split secret.bin --threshold 3 --shares 5 --output secret.shares
  strata sss split secret.bin --output secret.shares --protect`,
	Args: cobra.ExactArgs(1),
	RunE: runSSSSplit,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sssCombineCmd = &cobra.Command{
	Use:   "combine <bundle>",
	Short: "Reconstruct a secret from a share bundle",
	Long: `Combine reads a share bundle previously written by "sss split" and
reconstructs the original secret, failing if fewer than threshold shares
are present or the reconstructed hash does not match.`,
	Example: `  strata sss combine secret.shares --output secret.bin`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSSSCombine,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sssSharesCmd = &cobra.Command{
	Use:   "shares <bundle>",
	Short: "List the shares in a bundle",
	Long: `Shares prints the x-coordinate and metadata for every share stored
in a bundle file.`,
	Example: `  strata sss shares secret.shares`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSSSShares,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(sssCmd)
	sssCmd.AddCommand(sssSplitCmd)
	sssCmd.AddCommand(sssCombineCmd)
	sssCmd.AddCommand(sssSharesCmd)

	sssSplitCmd.Flags().IntVar(&sssThreshold, "threshold", 0, "shares required to reconstruct (default from config)")
	sssSplitCmd.Flags().IntVar(&sssShares, "shares", 0, "total shares to produce (default from config)")
	sssSplitCmd.Flags().StringVarP(&sssOutput, "output", "O", "", "bundle output path (default: <file>.shares)")
	sssSplitCmd.Flags().BoolVar(&sssProtect, "protect", false, "encrypt the bundle with a password")

	sssCombineCmd.Flags().StringVarP(&sssOutput, "output", "O", "", "reconstructed secret output path (default: <bundle> without .shares)")
}

func runSSSSplit(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	log := cmdLogger(cmd)

	// #nosec G304 -- path is an explicit CLI argument
	secret, err := os.ReadFile(inputPath)
	if err != nil {
		log.Error("reading %s: %v", inputPath, err)
		return strataerr.Wrap(err, "reading input file")
	}

	sssCfg, err := resolveSSSConfig()
	if err != nil {
		return err
	}

	log.Debug("splitting %s: %d bytes, threshold %d of %d shares", inputPath, len(secret), sssCfg.Threshold, sssCfg.TotalShares)

	shares, err := sss.Split(secret, sssCfg)
	secure.Zero(secret)
	if err != nil {
		log.Error("splitting %s: %v", inputPath, err)
		return strataerr.FromSSS(err)
	}

	payload, err := json.Marshal(shareBundle{Version: shareBundleVersion, Shares: toShareRecords(shares)})
	if err != nil {
		return strataerr.Wrap(err, "marshaling share bundle")
	}

	if sssProtect {
		password, perr := promptNewPasswordFn()
		if perr != nil {
			return perr
		}
		defer secure.Zero(password)

		payload, err = vault.Seal(payload, string(password))
		if err != nil {
			return strataerr.Wrap(err, "encrypting share bundle")
		}
	}

	outPath := sssOutput
	if outPath == "" {
		outPath = inputPath + ".shares"
	}

	if err := fileutil.WriteAtomic(outPath, payload, 0o600); err != nil {
		log.Error("writing %s: %v", outPath, err)
		return strataerr.Wrap(err, "writing share bundle")
	}

	log.Debug("wrote share bundle %s", outPath)

	w := cmd.OutOrStdout()
	out(w, "Split secret into %d shares (threshold %d)\n", len(shares), sssCfg.Threshold)
	out(w, "Wrote %s\n", outPath)

	return nil
}

func runSSSCombine(cmd *cobra.Command, args []string) error {
	bundlePath := args[0]
	log := cmdLogger(cmd)

	shares, err := loadShareBundle(bundlePath)
	if err != nil {
		log.Error("loading %s: %v", bundlePath, err)
		return err
	}

	log.Debug("combining %s: %d shares available", bundlePath, len(shares))

	secret, err := sss.Combine(shares)
	if err != nil {
		log.Error("combining %s: %v", bundlePath, err)
		return strataerr.FromSSS(err)
	}
	defer secure.Zero(secret)

	outPath := sssOutput
	if outPath == "" {
		outPath = trimBundleExt(bundlePath, ".shares")
	}

	if err := fileutil.WriteAtomic(outPath, secret, 0o600); err != nil {
		log.Error("writing %s: %v", outPath, err)
		return strataerr.Wrap(err, "writing reconstructed secret")
	}

	log.Debug("wrote reconstructed secret %s", outPath)

	w := cmd.OutOrStdout()
	out(w, "Reconstructed %d bytes\n", len(secret))
	out(w, "Wrote %s\n", outPath)

	return nil
}

func runSSSShares(cmd *cobra.Command, args []string) error {
	shares, err := loadShareBundle(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter != nil && formatter.Format() == output.FormatJSON {
		return writeJSON(w, toShareRecords(shares))
	}

	table := output.NewTable("X", "Bytes", "Threshold", "Total Shares", "Share Set ID")
	for _, sh := range shares {
		table.AddRow(
			strconv.Itoa(int(sh.X)),
			strconv.Itoa(len(sh.Y)),
			strconv.Itoa(sh.Metadata.Threshold),
			strconv.Itoa(sh.Metadata.TotalShares),
			sh.Metadata.ShareSetID,
		)
	}

	return table.Render(w)
}

// resolveSSSConfig builds an sss.Config from CLI flags, falling back to
// the configured SSS defaults for any flag left at zero.
func resolveSSSConfig() (sss.Config, error) {
	threshold := sssThreshold
	if threshold == 0 {
		threshold = cfg.SSS.Threshold
	}
	totalShares := sssShares
	if totalShares == 0 {
		totalShares = cfg.SSS.TotalShares
	}

	sssCfg, err := sss.NewConfig(threshold, totalShares, cfg.SSS.SecretMaxSize, cfg.SSS.UseSecureRandom)
	if err != nil {
		return sss.Config{}, strataerr.FromSSS(err)
	}
	return sssCfg, nil
}

// loadShareBundle reads a bundle file written by "sss split", transparently
// decrypting it with a prompted password when it is not valid JSON (i.e.
// was written with --protect).
func loadShareBundle(path string) ([]sss.Share, error) {
	// #nosec G304 -- path is an explicit CLI argument
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, strataerr.Wrap(err, "reading share bundle")
	}

	var bundle shareBundle
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
			return nil, strataerr.Wrap(jerr, "parsing share bundle")
		}
	}

	return fromShareRecords(bundle.Shares)
}
