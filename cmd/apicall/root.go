package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/apicontract/config"
	"github.com/kbukum/apicontract/contract"
	"github.com/kbukum/apicontract/httptransport"
	"github.com/kbukum/apicontract/logger"
	"github.com/kbukum/apicontract/version"
)

const serviceName = "apicall"

// appConfig is the file and environment configuration of the command.
type appConfig struct {
	Logging logger.Config        `yaml:"logging" mapstructure:"logging"`
	HTTP    httptransport.Config `yaml:"http" mapstructure:"http"`
}

type options struct {
	configFile string
	envFile    string
	baseURL    string
	timeout    time.Duration
	pathParams []string
	query      []string
	headers    []string
	body       string
	dryRun     bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "apicall [flags] METHOD PATH",
		Short: "Send a declared API request and print the JSON response",
		Long: `apicall resolves PATH placeholders, query terms, headers, and a JSON body
from flags, sends the request through the configured HTTP transport, and
prints the response. Empty responses are accepted.`,
		Version:      version.Get().String(),
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: search ./apicall.yml, ./config.yml, user config dir)")
	flags.StringVar(&opts.envFile, "env", "", ".env file to load before reading APICALL_* variables")
	flags.StringVar(&opts.baseURL, "base-url", "", "base URL, overrides http.base_url")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout, overrides http.timeout")
	flags.StringArrayVarP(&opts.pathParams, "path-param", "p", nil, "path parameter name=value, repeatable")
	flags.StringArrayVarP(&opts.query, "query", "q", nil, "query term key=value, repeatable and order-preserving")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "header Name=value, repeatable")
	flags.StringVarP(&opts.body, "body", "d", "", "JSON request body")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the resolved request without sending it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, method, path string, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log := logger.New(&cfg.Logging, serviceName)
	if cfg.Logging.Output == "stderr" {
		log = logger.NewWithWriter(errOut, &cfg.Logging, serviceName)
	}
	logger.SetGlobalLogger(log)

	fields, err := buildFields(opts)
	if err != nil {
		return err
	}
	ep := contract.NewRoute(method, path)

	tr, err := httptransport.New(cfg.HTTP, httptransport.WithLogger(log.WithComponent("httptransport")))
	if err != nil {
		return err
	}
	defer tr.Close()

	client, err := contract.New(tr, contract.WithSink(contract.LogSink(log.WithComponent("contract"))))
	if err != nil {
		return err
	}

	if opts.dryRun {
		params, err := client.Prepare(fields, ep, nil)
		if err != nil {
			return err
		}
		return printParams(out, tr.URL(params), params)
	}

	resp, err := contract.Perform[contract.Either[json.RawMessage, contract.EmptyResponse]](ctx, client, fields, ep)
	if err != nil {
		var he *httptransport.Error
		if errors.As(err, &he) && len(he.Body) > 0 {
			_, _ = fmt.Fprintf(errOut, "%s\n", he.Body)
		}
		return err
	}

	raw, ok := resp.Left()
	if !ok {
		raw = json.RawMessage("{}")
	}
	return printJSON(out, raw)
}

func loadConfig(opts *options) (*appConfig, error) {
	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}

	cfg := &appConfig{}
	if err := config.Load(serviceName, cfg, loadOpts...); err != nil {
		return nil, err
	}

	if opts.baseURL != "" {
		cfg.HTTP.BaseURL = opts.baseURL
	}
	if opts.timeout > 0 {
		cfg.HTTP.Timeout = opts.timeout
	}
	if cfg.HTTP.Name == "" {
		cfg.HTTP.Name = serviceName
	}
	if !hasHeader(cfg.HTTP.Headers, "User-Agent") {
		if cfg.HTTP.Headers == nil {
			cfg.HTTP.Headers = make(map[string]string)
		}
		cfg.HTTP.Headers["User-Agent"] = version.UserAgent(serviceName)
	}

	cfg.Logging.ApplyDefaults()
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildFields turns flag values into request fields in flag order:
// path parameters, query terms, headers, then the body.
func buildFields(opts *options) (contract.FieldList, error) {
	var fields contract.FieldList
	groups := []struct {
		flag   string
		values []string
		param  func(string) contract.Parameter
	}{
		{"path-param", opts.pathParams, func(v string) contract.Parameter { return contract.InPath(v) }},
		{"query", opts.query, func(v string) contract.Parameter { return contract.InQuery(v) }},
		{"header", opts.headers, func(v string) contract.Parameter { return contract.InHeader(v) }},
	}
	for _, g := range groups {
		for _, kv := range g.values {
			name, value, err := splitPair(g.flag, kv)
			if err != nil {
				return nil, err
			}
			fields = append(fields, contract.Bind(name, g.param(value)))
		}
	}

	if opts.body != "" {
		if !json.Valid([]byte(opts.body)) {
			return nil, fmt.Errorf("--body is not valid JSON")
		}
		fields = append(fields, contract.Bind("body", contract.InBody(json.RawMessage(opts.body))))
	}
	return fields, nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func splitPair(flag, kv string) (string, string, error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("--%s %q: expected name=value", flag, kv)
	}
	return name, value, nil
}

func printParams(out io.Writer, target string, p contract.Params) error {
	if _, err := fmt.Fprintf(out, "%s %s\n", p.Method(), target); err != nil {
		return err
	}
	headers := p.Headers()
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		if _, err := fmt.Fprintf(out, "%s: %s\n", name, headers[name]); err != nil {
			return err
		}
	}
	if p.HasBody() {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		return printJSON(out, p.Body())
	}
	return nil
}

func printJSON(out io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		buf.Reset()
		buf.Write(data)
	}
	buf.WriteByte('\n')
	_, err := out.Write(buf.Bytes())
	return err
}
