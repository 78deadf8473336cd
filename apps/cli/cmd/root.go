package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/extapi/packages/core/config"
	"github.com/abdul-hamid-achik/extapi/packages/logging"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	verboseFlag int // 0=off, 1=-v, 2=-vv
	noColorFlag bool
	configFlag  string
	outputFlag  string

	// appConfig and logger are set up before every command runs.
	appConfig *config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "extapi",
	Short: "Build, sign and send HTTP API calls",
	Long: `extapi builds HTTP API calls from saved .api files, optionally signs
them with OAuth 1.0a (HMAC-SHA1) or HTTP Basic credentials, sends them
and shows the response.

Examples:
  extapi new status.api --url https://api.example.com/1/statuses/update.json --method post
  extapi param set status.api status="Hello Ladies + Gentlemen"
  extapi exec status.api
  extapi exec --dry-run`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		if !errorShown(err) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
		}
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v for debug logs, -vv for trace)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("EXTAPI_NO_COLOR", false), "Disable colored output (env: EXTAPI_NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("EXTAPI_CONFIG", ""), "Path to config file (env: EXTAPI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", getEnvString("EXTAPI_OUTPUT", ""), "Output format: console, json (env: EXTAPI_OUTPUT)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(paramCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file (or the defaults when there is none) and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return configError(err)
	}
	appConfig = cfg

	if appConfig.GetNoColor() {
		noColorFlag = true
	}
	if noColorFlag {
		color.NoColor = true
	}
	if outputFlag == "" {
		outputFlag = appConfig.Output
	}

	logger = logging.New(logging.Options{
		Verbosity: verboseFlag,
		NoColor:   noColorFlag,
		Writer:    cmd.ErrOrStderr(),
	})
	logger.WithField("config", configFlag).Debug("configuration loaded")
	return nil
}
