package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/spf13/cobra"
)

var (
	newFlags callFlags
	newForce bool
)

var newCmd = &cobra.Command{
	Use:   "new <file.api>",
	Short: "Create a saved API call",
	Long: `Create a new .api file describing one API call.

The call starts as a blank GET; flags fill it in. OAuth secrets may be left
out and supplied when sending through EXTAPI_CONSUMER_SECRET and
EXTAPI_TOKEN_SECRET; those variables are never written to the file. The
Basic auth password is never saved.

Examples:
  extapi new users.api --url https://api.example.com/users --param page=1
  extapi new status.api -X post --url https://api.example.com/1/statuses/update.json \
    --consumer-key KEY --access-token TOKEN
  extapi new login.api --url https://example.com/login --username alice --force`,
	Args: cobra.ExactArgs(1),
	RunE: newCommand,
}

func init() {
	addCallFlags(newCmd, &newFlags)
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "Overwrite an existing file")
}

func newCommand(cmd *cobra.Command, args []string) error {
	path := apiPath(args[0])

	if !newForce {
		if _, err := os.Stat(path); err == nil {
			return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", path))
		}
	}

	s := call.NewSettings()
	if err := newFlags.apply(cmd, s); err != nil {
		return configError(err)
	}
	if err := s.Parameters.Validate(); err != nil {
		return configError(err)
	}

	if err := s.Save(path); err != nil {
		return err
	}
	rememberFile(path)

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	return nil
}
