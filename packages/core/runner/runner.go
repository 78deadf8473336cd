package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/extapi/packages/auth/oauth1"
	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/abdul-hamid-achik/extapi/packages/history"
	"github.com/abdul-hamid-achik/extapi/packages/http"
	"github.com/abdul-hamid-achik/extapi/packages/logging"
	"github.com/sirupsen/logrus"
)

// Recorder stores a summary of every executed call.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

type Config struct {
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
	ValidateSSL     bool
	Proxy           string
	Headers         map[string]string

	OAuthPlacement        oauth1.Placement
	AllowEmptyTokenSecret bool

	// File names the .api file the call came from, for history.
	File string
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Timeout:         http.DefaultTimeout,
		FollowRedirects: true,
		MaxRedirects:    http.DefaultMaxRedirects,
		ValidateSSL:     true,
		OAuthPlacement:  oauth1.PlacementHeader,
	}
}

// Runner executes calls. It holds no per-call state, so one Runner can run
// any number of calls in sequence.
type Runner struct {
	client   *http.Client
	config   *Config
	logger   logrus.FieldLogger
	recorder Recorder
	signer   []oauth1.Option
}

type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithRecorder records every call, successful or not.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithClient replaces the HTTP client built from the config.
func WithClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

// WithSignerOptions passes options to the OAuth signer of every call.
func WithSignerOptions(opts ...oauth1.Option) Option {
	return func(r *Runner) {
		r.signer = append(r.signer, opts...)
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	r := &Runner{config: cfg}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.Discard()
	}

	if r.client == nil {
		clientOpts := []http.ClientOption{
			http.WithFollowRedirects(cfg.FollowRedirects),
			http.WithValidateSSL(cfg.ValidateSSL),
			http.WithDefaultHeaders(cfg.Headers),
		}
		if cfg.Timeout > 0 {
			clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
		}
		if cfg.MaxRedirects > 0 {
			clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
		}
		if cfg.Proxy != "" {
			clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
		}
		r.client = http.NewClient(clientOpts...)
	}

	return r
}

// Config returns the runner configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Prepare builds and signs the request for c without sending it.
func (r *Runner) Prepare(c *call.Call) (*http.Request, error) {
	opts := []http.BuildOption{http.WithPlacement(r.config.OAuthPlacement)}

	signerOpts := append([]oauth1.Option{oauth1.WithEmptyTokenSecret(r.config.AllowEmptyTokenSecret)}, r.signer...)
	opts = append(opts, http.WithSignerOptions(signerOpts...))

	req, err := http.BuildRequest(c, opts...)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    c.URL,
		"auth":   req.AuthMode.String(),
		"params": len(req.Params),
	})
	log.Debug("request built")
	if req.Signature != nil {
		log.WithField("base_string", req.Signature.BaseString).Trace("oauth signature base string")
	}

	return req, nil
}

// Execute sends exactly one request for c and returns its result. The caller
// owns the result body and must read or close it.
//
// Build failures are returned before any network I/O. Transport failures
// wrap call.ErrTransport. A response that looks like XML but does not parse
// is not an error: Result.XML stays nil and Result.XMLErr says why.
func (r *Runner) Execute(c *call.Call) (*Result, error) {
	req, err := r.Prepare(c)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    c.URL,
	})
	log.Debug("sending request")

	resp, err := r.client.Do(req)
	if err != nil {
		r.record(c, req, nil, err)
		return nil, err
	}

	result := &Result{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		FinalURL:    req.URL,
		ResponseURL: resp.FinalURL,
		Headers:     resp.Headers,
		Body:        resp.Body,
		Duration:    resp.Duration,
		Request:     req,
		Response:    resp,
	}

	logStatus(log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": resp.DurationMs(),
	}), resp)

	if resp.IsXML() {
		if err := r.parseXML(result, log); err != nil {
			r.record(c, req, nil, err)
			return nil, err
		}
	}

	r.record(c, req, result, nil)
	return result, nil
}

// logStatus logs the response at a level that follows its status class.
func logStatus(log logrus.FieldLogger, resp *http.Response) {
	switch {
	case resp.IsSuccess():
		log.Debug("response received")
	case resp.IsRedirect():
		log.WithField("location", resp.Header("Location")).Info("redirect not followed")
	case resp.IsClientError():
		log.Warn("request rejected by server")
	case resp.IsServerError():
		log.Warn("server error")
	default:
		log.Debug("response received")
	}
}

// parseXML reads the XML body, parses it, and puts the bytes back as a fresh
// body. Reading closes the stream, so the body is released on failure too.
func (r *Runner) parseXML(result *Result, log logrus.FieldLogger) error {
	data, err := result.Body.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: reading response body: %w", call.ErrTransport, err)
	}
	result.Body = http.NewBytesBody(data)
	result.Response.Body = result.Body

	doc, err := ParseXML(data)
	if err != nil {
		result.XMLErr = err
		log.WithError(err).Warn("response is not well-formed XML")
		return nil
	}
	result.XML = doc
	return nil
}

func (r *Runner) record(c *call.Call, req *http.Request, result *Result, callErr error) {
	if r.recorder == nil {
		return
	}

	entry := history.Entry{
		ExecutedAt: time.Now(),
		File:       r.config.File,
		Method:     req.Method,
		URL:        c.URL,
		AuthMode:   req.AuthMode.String(),
	}
	if result != nil {
		entry.StatusCode = result.StatusCode
		entry.Duration = result.Duration
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}

	if err := r.recorder.Record(context.Background(), entry); err != nil {
		r.logger.WithError(err).Warn("failed to record call history")
	}
}
