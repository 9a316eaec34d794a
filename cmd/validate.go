package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simgrid/simgrid/simgrid"
)

var validatePlatformPath string

var validatePlatformCmd = &cobra.Command{
	Use:   "validate-platform",
	Short: "Parse and seal a platform XML file without running it",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		eng := simgrid.NewEngine()
		if err := eng.LoadPlatform(validatePlatformPath); err != nil {
			logrus.Fatalf("platform %s is invalid: %v", validatePlatformPath, err)
		}
		logrus.Infof("platform %s parsed and sealed successfully", validatePlatformPath)
	},
}

func init() {
	validatePlatformCmd.Flags().StringVar(&validatePlatformPath, "platform", "", "Path to the platform XML description (required)")
	_ = validatePlatformCmd.MarkFlagRequired("platform")
}
