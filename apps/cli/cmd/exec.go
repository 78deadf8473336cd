package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/extapi/packages/assertions"
	"github.com/abdul-hamid-achik/extapi/packages/auth/oauth1"
	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/abdul-hamid-achik/extapi/packages/capture"
	"github.com/abdul-hamid-achik/extapi/packages/core/env"
	"github.com/abdul-hamid-achik/extapi/packages/core/runner"
	"github.com/abdul-hamid-achik/extapi/packages/history"
	"github.com/abdul-hamid-achik/extapi/packages/http"
	"github.com/abdul-hamid-achik/extapi/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec [file.api]",
	Short: "Send an API call and show the response",
	Long: `Send the call saved in an .api file. Flags override what the file holds
for this run only; use --save to keep them. Without a file and without
--url, the last used file is sent.

Values may reference variables: {{name}} from the config file or an env
file, {{$NAME}} from the process environment, and functions such as
{{timestamp()}} or {{uuid()}}.

Examples:
  extapi exec status.api
  extapi exec status.api --dry-run
  extapi exec users.api --param page=2 --query "data.0.id"
  extapi exec users.api --expect-status 200 --expect "data length 10"
  extapi exec login.api --password "$SECRET" --schema login.schema.json
  extapi exec --url https://httpbin.org/get -X get -o json
  extapi exec status.api --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: execCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	execFlags callFlags

	execPassword       string
	execDryRun         bool
	execQuery          string
	execExpectStatus   []int
	execExpect         []string
	execSchema         string
	execSave           string
	execWatch          bool
	execEnvFile        string
	execOAuthPlacement string
	execTimeout        string
	execInsecure       bool
	execProxy          string
	execHeaders        []string
	execHistory        bool
	execHistoryFile    string
)

func init() {
	addCallFlags(execCmd, &execFlags)

	// Auth flags
	execCmd.Flags().StringVar(&execPassword, "password", getEnvString("EXTAPI_PASSWORD", ""), "HTTP Basic auth password, never saved (env: EXTAPI_PASSWORD)")
	execCmd.Flags().StringVar(&execOAuthPlacement, "oauth-placement", getEnvString("EXTAPI_OAUTH_PLACEMENT", ""), "Where OAuth parameters go: header, inline (env: EXTAPI_OAUTH_PLACEMENT)")

	// Execution flags
	execCmd.Flags().BoolVar(&execDryRun, "dry-run", false, "Build and sign the request and show it without sending")
	execCmd.Flags().StringVar(&execSave, "save", "", "Save the call, with flag overrides applied, to this file")
	execCmd.Flags().BoolVarP(&execWatch, "watch", "w", false, "Watch the .api file and send again when it changes")
	execCmd.Flags().StringVar(&execEnvFile, "env-file", getEnvString("EXTAPI_ENV_FILE", ""), "Path to .env file for variable interpolation (env: EXTAPI_ENV_FILE)")
	execCmd.Flags().BoolVar(&execHistory, "history", getEnvBool("EXTAPI_HISTORY", true), "Record the call in the history database (env: EXTAPI_HISTORY)")
	execCmd.Flags().StringVar(&execHistoryFile, "history-file", getEnvString("EXTAPI_HISTORY_FILE", ""), "History database path (env: EXTAPI_HISTORY_FILE)")

	// Response flags
	execCmd.Flags().StringVarP(&execQuery, "query", "q", "", "Print only the value at this JSON path")
	execCmd.Flags().IntSliceVar(&execExpectStatus, "expect-status", nil, "Fail unless the status is one of these codes")
	execCmd.Flags().StringArrayVarP(&execExpect, "expect", "e", nil, `Check on the response, e.g. "user.name == John" (repeatable)`)
	execCmd.Flags().StringVar(&execSchema, "schema", "", "Fail unless the body satisfies this JSON Schema file")

	// Network flags
	execCmd.Flags().StringVar(&execTimeout, "timeout", getEnvString("EXTAPI_TIMEOUT", ""), "Request timeout, e.g. 30s, 1m (env: EXTAPI_TIMEOUT)")
	execCmd.Flags().BoolVarP(&execInsecure, "insecure", "k", getEnvBool("EXTAPI_INSECURE", false), "Disable SSL certificate validation (env: EXTAPI_INSECURE)")
	execCmd.Flags().StringVar(&execProxy, "proxy", getEnvString("EXTAPI_PROXY", ""), "Proxy URL for HTTP requests (env: EXTAPI_PROXY)")
	execCmd.Flags().StringArrayVarP(&execHeaders, "header", "H", nil, `Extra request header as "Name: value" (repeatable)`)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(res *runner.Result, body []byte)
	FormatRequest(req *http.Request)
	FormatAssertions(results []*assertions.Result)
	FormatHistory(entries []history.Entry)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush() error
}

func newFormatter(w io.Writer) Formatter {
	if strings.EqualFold(outputFlag, "json") {
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	}
	return output.NewConsoleFormatter(
		output.WithWriter(w),
		output.WithVerbose(verboseFlag > 0),
		output.WithNoColor(noColorFlag),
	)
}

func flush(f Formatter) error {
	if flushable, ok := f.(Flushable); ok {
		if err := flushable.Flush(); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return nil
}

func execCommand(cmd *cobra.Command, args []string) error {
	var path string
	switch {
	case len(args) > 0:
		path = apiPath(args[0])
	case cmd.Flags().Changed("url"):
		// ad-hoc call built from flags only
	default:
		last, err := lastFile()
		if err != nil {
			return err
		}
		path = last
	}

	if execWatch && path == "" {
		return usageError(fmt.Errorf("--watch needs an .api file"))
	}

	rcfg, err := runnerConfig(path)
	if err != nil {
		return configError(err)
	}
	expectations, err := buildExpectations()
	if err != nil {
		return usageError(err)
	}

	opts := []runner.Option{runner.WithLogger(logger)}
	if execHistory && !execDryRun {
		store, err := openHistory()
		if err != nil {
			logger.WithError(err).Warn("call history disabled")
		} else {
			defer store.Close()
			opts = append(opts, runner.WithRecorder(store))
		}
	}
	r := runner.NewRunner(rcfg, opts...)

	err = execOnce(cmd, r, path, expectations)
	if !execWatch {
		return err
	}
	if err != nil {
		reportWatchError(cmd, err)
	}
	return watch(cmd, path, func() error {
		return execOnce(cmd, r, path, expectations)
	})
}

// runnerConfig combines the config file with the network flags.
func runnerConfig(path string) (*runner.Config, error) {
	cfg := runner.DefaultConfig()
	cfg.File = path
	cfg.Timeout = appConfig.TimeoutDuration()
	cfg.FollowRedirects = appConfig.GetFollowRedirects()
	cfg.MaxRedirects = appConfig.MaxRedirects
	cfg.ValidateSSL = appConfig.GetValidateSSL() && !execInsecure
	cfg.AllowEmptyTokenSecret = appConfig.GetAllowEmptyTokenSecret()

	cfg.Proxy = appConfig.Proxy
	if execProxy != "" {
		cfg.Proxy = execProxy
	}

	if execTimeout != "" {
		timeout, err := time.ParseDuration(execTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", execTimeout, err)
		}
		cfg.Timeout = timeout
	}

	placement := appConfig.OAuthPlacement
	if execOAuthPlacement != "" {
		placement = execOAuthPlacement
	}
	p, err := oauth1.ParsePlacement(placement)
	if err != nil {
		return nil, err
	}
	cfg.OAuthPlacement = p

	headers := make(map[string]string, len(appConfig.Headers)+len(execHeaders))
	for k, v := range appConfig.Headers {
		headers[k] = v
	}
	for _, h := range execHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q (use \"Name: value\")", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	cfg.Headers = headers

	return cfg, nil
}

func buildExpectations() (*assertions.Expectations, error) {
	exp := &assertions.Expectations{
		Status: execExpectStatus,
		Schema: execSchema,
	}
	for _, raw := range execExpect {
		c, err := assertions.ParseCheck(raw)
		if err != nil {
			return nil, err
		}
		exp.Checks = append(exp.Checks, c)
	}
	return exp, nil
}

func openHistory() (*history.Store, error) {
	path, err := historyPath(execHistoryFile)
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

// newResolver loads variables from the config file, EXTAPI_VAR_* environment
// variables and the env file, in that order of precedence from lowest to
// highest.
func newResolver() (*env.Resolver, error) {
	resolver := env.NewResolver()
	resolver.SetWarnFunc(func(format string, args ...any) {
		logger.Warnf(format, args...)
	})

	envFile := execEnvFile
	if envFile == "" {
		envFile = appConfig.EnvFile
	}
	var fileVars map[string]string
	if envFile != "" {
		vars, err := env.LoadDotEnv(envFile)
		if err != nil {
			return nil, parseError(err)
		}
		fileVars = vars
	}

	resolver.SetVariables(env.MergeVariables(appConfig.Variables, env.LoadSystemEnv(env.VariablePrefix), fileVars))
	return resolver, nil
}

// execOnce loads, resolves and sends the call once. Errors that reach the
// formatter are marked as shown.
func execOnce(cmd *cobra.Command, r *runner.Runner, path string, exp *assertions.Expectations) error {
	s := call.NewSettings()
	if path != "" {
		loaded, err := openCall(path)
		if err != nil {
			return err
		}
		s = loaded
	}
	if err := execFlags.apply(cmd, s); err != nil {
		return err
	}

	resolver, err := newResolver()
	if err != nil {
		return err
	}
	c := resolver.ResolveCall(execFlags.withEnvSecrets(cmd, s).Call(execPassword))
	for _, name := range resolver.GetUnresolvedVariables(c.URL) {
		logger.WithField("variable", name).Warn("unresolved variable in url")
	}

	w := cmd.OutOrStdout()
	formatter := newFormatter(w)
	if verboseFlag > 0 {
		formatter.FormatHeader(version)
	}

	if execDryRun {
		req, err := r.Prepare(c)
		if err != nil {
			return report(formatter, err)
		}
		formatter.FormatRequest(req)
		return flush(formatter)
	}

	res, err := r.Execute(c)
	if err != nil {
		return report(formatter, err)
	}
	defer res.Close()

	body, err := res.Body.ReadAll()
	if err != nil {
		return report(formatter, fmt.Errorf("%w: reading response body: %w", call.ErrTransport, err))
	}

	results := assertions.Evaluate(res, body, exp)
	if execQuery != "" {
		value, err := capture.Extract(body, execQuery)
		if err != nil {
			return report(formatter, parseError(err))
		}
		fmt.Fprintln(w, value)
		if !assertions.AllPassed(results) {
			formatter.FormatAssertions(results)
			if err := flush(formatter); err != nil {
				return err
			}
		}
	} else {
		formatter.FormatResult(res, body)
		formatter.FormatAssertions(results)
		if err := flush(formatter); err != nil {
			return err
		}
	}

	if execSave != "" {
		savePath := apiPath(execSave)
		if err := s.Save(savePath); err != nil {
			return err
		}
		rememberFile(savePath)
		logger.WithField("file", savePath).Debug("call saved")
	} else if path != "" {
		rememberFile(path)
	}

	if !assertions.AllPassed(results) {
		return shownError(errAssertionsFailed)
	}
	return nil
}

// report hands err to the formatter and marks it as shown.
func report(f Formatter, err error) error {
	f.FormatError(err)
	if ferr := flush(f); ferr != nil {
		return ferr
	}
	return shownError(err)
}

func reportWatchError(cmd *cobra.Command, err error) {
	if !errorShown(err) {
		newFormatter(cmd.ErrOrStderr()).FormatError(err)
	}
}

// watch sends the call again every time path is written, until interrupted.
// Runs happen on this goroutine, one at a time.
func watch(cmd *cobra.Command, path string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors often replace the file instead of writing it, so watch the
	// directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", path)

	var debounceTimer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			// Debounce: reset timer on each event
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(WatchDebounceDelay)
			} else {
				debounceTimer.Reset(WatchDebounceDelay)
			}
			fire = debounceTimer.C

		case <-fire:
			fire = nil
			fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nSending again...\n\n", path)
			if err := run(); err != nil {
				reportWatchError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			reportWatchError(cmd, fmt.Errorf("watcher error: %w", err))
		}
	}
}
