package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	convertInputPath  string
	convertOutputPath string
	convertLoopAfter  float64
)

var convertProfileCmd = &cobra.Command{
	Use:   "convert-profile",
	Short: "Convert a two-column CSV (date,value) into the platform profile text format",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if err := convertProfile(convertInputPath, convertOutputPath, convertLoopAfter); err != nil {
			logrus.Fatalf("convert-profile: %v", err)
		}
		logrus.Infof("wrote profile %s", convertOutputPath)
	},
}

// convertProfile reads date,value pairs from a CSV file (no third-party CSV
// library appears anywhere in the pack, so this one-off conversion stays on
// encoding/csv) and writes them in the line-oriented profile format
// platform.ParseProfile expects.
func convertProfile(inputPath, outputPath string, loopAfter float64) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer func() { _ = in.Close() }()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing CSV: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() { _ = out.Close() }()

	for i, rec := range records {
		if _, err := strconv.ParseFloat(rec[0], 64); err != nil {
			return fmt.Errorf("row %d: bad date %q: %w", i, rec[0], err)
		}
		if _, err := strconv.ParseFloat(rec[1], 64); err != nil {
			return fmt.Errorf("row %d: bad value %q: %w", i, rec[1], err)
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", rec[0], rec[1]); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	if loopAfter > 0 {
		if _, err := fmt.Fprintf(out, "LOOPAFTER %v\n", loopAfter); err != nil {
			return fmt.Errorf("writing LOOPAFTER: %w", err)
		}
	}
	return nil
}

func init() {
	convertProfileCmd.Flags().StringVar(&convertInputPath, "in", "", "Path to the input CSV file (date,value columns, required)")
	convertProfileCmd.Flags().StringVar(&convertOutputPath, "out", "", "Path to write the converted profile file (required)")
	convertProfileCmd.Flags().Float64Var(&convertLoopAfter, "loop-after", 0, "Append a LOOPAFTER line with this period (0 = omit)")
	_ = convertProfileCmd.MarkFlagRequired("in")
	_ = convertProfileCmd.MarkFlagRequired("out")
}
