package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const secretMask = "********"

var showReveal bool

var showCmd = &cobra.Command{
	Use:   "show [file.api]",
	Short: "Show a saved API call",
	Long: `Show the call saved in an .api file. Secrets are masked unless
--reveal is given. Without a file, the last used file is shown.

Examples:
  extapi show status.api
  extapi show status.api -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: showCommand,
}

func init() {
	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "Show secrets in clear text")
}

func showCommand(cmd *cobra.Command, args []string) error {
	path, err := fileArg(args)
	if err != nil {
		return err
	}
	s, err := openCall(path)
	if err != nil {
		return err
	}
	if !showReveal {
		s = maskSettings(s)
	}

	if strings.EqualFold(outputFlag, "json") {
		return s.Encode(cmd.OutOrStdout())
	}
	printSettings(cmd.OutOrStdout(), path, s)
	return nil
}

// fileArg returns the .api file named on the command line, or the last used
// one.
func fileArg(args []string) (string, error) {
	if len(args) > 0 {
		return apiPath(args[0]), nil
	}
	return lastFile()
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return secretMask
}

// maskSettings returns a copy of s with both OAuth secrets hidden.
func maskSettings(s *call.Settings) *call.Settings {
	out := *s
	out.Parameters = s.Parameters.Clone()
	out.LastOAuthConsumerSecret = maskSecret(s.LastOAuthConsumerSecret)
	out.LastOAuthTokenSecret = maskSecret(s.LastOAuthTokenSecret)
	return &out
}

func printSettings(w io.Writer, path string, s *call.Settings) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	method := s.RequestMethod.HTTPMethod()
	if method == "" {
		method = "(none)"
	}
	fmt.Fprintf(w, "%s %s\n", faint("File:"), path)
	fmt.Fprintf(w, "%s %s %s\n", faint("Call:"), bold(method), s.LastApiUrl)

	switch {
	case s.OAuthEnabled():
		fmt.Fprintf(w, "%s oauth1\n", faint("Auth:"))
		fmt.Fprintf(w, "  consumer key:    %s\n", s.LastOAuthConsumerKey)
		fmt.Fprintf(w, "  consumer secret: %s\n", s.LastOAuthConsumerSecret)
		fmt.Fprintf(w, "  access token:    %s\n", s.LastOAuthAccessToken)
		fmt.Fprintf(w, "  token secret:    %s\n", s.LastOAuthTokenSecret)
	case s.BasicAuthEnabled():
		fmt.Fprintf(w, "%s basic\n", faint("Auth:"))
		fmt.Fprintf(w, "  username: %s\n", s.WebAuthUsername)
	default:
		fmt.Fprintf(w, "%s none\n", faint("Auth:"))
	}

	printParameters(w, s.Parameters)
}

func printParameters(w io.Writer, params call.Parameters) {
	faint := color.New(color.Faint).SprintFunc()
	if len(params) == 0 {
		fmt.Fprintf(w, "%s none\n", faint("Parameters:"))
		return
	}
	fmt.Fprintf(w, "%s\n", faint("Parameters:"))
	for _, p := range params {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
