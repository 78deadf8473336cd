package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/import/curl"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	importFromFlag  string
	importOutFlag   string
	importForceFlag bool
)

var importCmd = &cobra.Command{
	Use:   "import <format>",
	Short: "Create saved calls from other formats",
	Long: `Create .api files from commands or exports of other tools.

Supported formats:
  curl - a curl command line

Examples:
  extapi import curl "curl -u alice https://api.example.com/me"
  extapi import curl --from request.sh --out me.api`,
}

var importCurlCmd = &cobra.Command{
	Use:   "curl [command]",
	Short: "Import a curl command",
	Long: `Import a curl command as a .api file.

The command comes from the argument, from --from, or from stdin. Query
and form data become parameters in order. JSON or file bodies cannot be
saved and are rejected. Headers and the Basic auth password are not
saved; a warning names each one.

Examples:
  extapi import curl "curl -d status=hello https://api.example.com/1/statuses/update.json"
  extapi import curl --from request.sh --out status.api
  pbpaste | extapi import curl`,
	Args: cobra.MaximumNArgs(1),
	RunE: importCurlCommand,
}

func init() {
	importCurlCmd.Flags().StringVar(&importFromFlag, "from", "", "Read the command from a file")
	importCurlCmd.Flags().StringVar(&importOutFlag, "out", "", "Output .api file (default: named after the URL)")
	importCurlCmd.Flags().BoolVarP(&importForceFlag, "force", "f", false, "Overwrite an existing file")

	importCmd.AddCommand(importCurlCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	command, err := readCurlCommand(cmd, args)
	if err != nil {
		return err
	}

	conv, err := curl.NewConverter().ConvertCommand(command)
	if err != nil {
		return parseError(fmt.Errorf("failed to convert curl command: %w", err))
	}

	path := importOutFlag
	if path == "" {
		path = conv.Name
	}
	path = apiPath(path)

	if !importForceFlag {
		if _, err := os.Stat(path); err == nil {
			return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", path))
		}
	}

	if err := conv.Settings.Save(path); err != nil {
		return err
	}
	rememberFile(path)

	warn := color.New(color.FgYellow).SprintFunc()
	for _, w := range conv.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", warn("Warning:"), w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported: %s\n", path)
	return nil
}

func readCurlCommand(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1 && importFromFlag != "":
		return "", usageError(fmt.Errorf("give the command as an argument or with --from, not both"))
	case len(args) == 1:
		return args[0], nil
	}

	var r io.Reader = cmd.InOrStdin()
	if importFromFlag != "" {
		f, err := os.Open(importFromFlag)
		if err != nil {
			return "", configError(err)
		}
		defer f.Close()
		r = f
	}

	command, err := curl.ReadCommand(r)
	if err != nil {
		return "", parseError(err)
	}
	if !strings.HasPrefix(command, "curl") {
		return "", parseError(fmt.Errorf("not a curl command: %q", command))
	}
	return command, nil
}
