package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ozbe/dwift/config"
	"github.com/ozbe/dwift/dwolla"
	"github.com/ozbe/dwift/httpx"
	"github.com/ozbe/dwift/version"
)

// errUnsuccessful marks a call that completed but reported Success=false.
// The envelope has already been printed, so main only sets the exit code.
var errUnsuccessful = errors.New("call unsuccessful")

type app struct {
	configFile string
	settings   config.Settings
	logger     *slog.Logger
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "dwift",
		Short:         "Command line client for the Dwolla REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	pf.String("host", "", "API base url")
	pf.String("token", "", "OAuth access token (prefer DWIFT_TOKEN)")
	pf.String("user-agent", "", "override the User-Agent header")
	pf.Duration("timeout", 0, "upper bound for one API call (0 = none)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text or json")

	root.AddCommand(newSendCmd(a), newUserCmd(a), newVersionCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if a.configFile != "" {
		opts = append(opts, config.WithFile(a.configFile))
	}
	l, err := config.Load(opts...)
	if err != nil {
		return err
	}
	a.settings = l.Settings()

	logger, err := newLogger(a.stderr, a.settings.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) client() (*dwolla.Client, error) {
	s := a.settings
	if strings.TrimSpace(s.Token) == "" {
		return nil, errors.New("no access token: set DWIFT_TOKEN, --token or token in the config file")
	}
	ua := s.UserAgent
	if ua == "" {
		ua = version.Get().UserAgent()
	}
	hc := httpx.New(
		httpx.WithTimeout(s.Timeout),
		httpx.WithUserAgent(ua),
		httpx.WithLogger(a.logger),
	)
	return dwolla.New(s.Token,
		dwolla.WithHost(s.Host),
		dwolla.WithHTTPClient(hc),
		dwolla.WithLogger(a.logger),
	)
}

func newLogger(w io.Writer, s config.LogSettings) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", s.Level)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(s.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", s.Format)
	}
}
