package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/spf13/cobra"
)

var paramOAuth bool

var paramCmd = &cobra.Command{
	Use:   "param",
	Short: "Edit the parameters of a saved API call",
	Long: `Edit the parameters of a saved API call. Parameters are identified by
name: setting an existing name replaces its value in place, new names are
appended.

Examples:
  extapi param set status.api status="Hello Ladies + Gentlemen"
  extapi param set status.api oauth_callback=oob --oauth
  extapi param rm status.api status
  extapi param list status.api`,
}

var paramSetCmd = &cobra.Command{
	Use:   "set <file.api> <name=value>...",
	Short: "Add or replace parameters",
	Args:  cobra.MinimumNArgs(2),
	RunE:  paramSetCommand,
}

var paramRmCmd = &cobra.Command{
	Use:     "rm <file.api> <name>...",
	Aliases: []string{"remove"},
	Short:   "Remove parameters by name",
	Args:    cobra.MinimumNArgs(2),
	RunE:    paramRmCommand,
}

var paramListCmd = &cobra.Command{
	Use:     "list [file.api]",
	Aliases: []string{"ls"},
	Short:   "List parameters in order",
	Args:    cobra.MaximumNArgs(1),
	RunE:    paramListCommand,
}

func init() {
	paramSetCmd.Flags().BoolVar(&paramOAuth, "oauth", false, "Mark the parameters as OAuth protocol parameters")

	paramCmd.AddCommand(paramSetCmd)
	paramCmd.AddCommand(paramRmCmd)
	paramCmd.AddCommand(paramListCmd)
}

func paramSetCommand(cmd *cobra.Command, args []string) error {
	path := apiPath(args[0])
	s, err := openCall(path)
	if err != nil {
		return err
	}

	for _, raw := range args[1:] {
		p, err := call.ParseParameter(raw)
		if err != nil {
			return usageError(err)
		}
		p.OAuth = paramOAuth
		s.Parameters = s.Parameters.Set(p)
	}

	if err := s.Save(path); err != nil {
		return err
	}
	rememberFile(path)
	printParameters(cmd.OutOrStdout(), s.Parameters)
	return nil
}

func paramRmCommand(cmd *cobra.Command, args []string) error {
	path := apiPath(args[0])
	s, err := openCall(path)
	if err != nil {
		return err
	}

	for _, name := range args[1:] {
		var removed bool
		s.Parameters, removed = s.Parameters.Remove(name)
		if !removed {
			return usageError(fmt.Errorf("%s has no parameter %q", path, name))
		}
	}

	if err := s.Save(path); err != nil {
		return err
	}
	rememberFile(path)
	printParameters(cmd.OutOrStdout(), s.Parameters)
	return nil
}

func paramListCommand(cmd *cobra.Command, args []string) error {
	path, err := fileArg(args)
	if err != nil {
		return err
	}
	s, err := openCall(path)
	if err != nil {
		return err
	}
	printParameters(cmd.OutOrStdout(), s.Parameters)
	return nil
}
