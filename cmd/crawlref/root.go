package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jongio/crawlref/cliout"
	"github.com/jongio/crawlref/config"
	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/refextract"
	"github.com/jongio/crawlref/version"
)

// app holds the persistent flags and the state derived from them.
type app struct {
	debug       bool
	output      string
	profileName string
	configDir   string
	metrics     bool
	metricsPort int

	profile       config.Profile
	metricsServer *http.Server
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "crawlref",
		Short:         "Extract and normalize references from crawled documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.StringVarP(&a.output, "output", "o", "default", "Output format (default, json)")
	flags.StringVar(&a.profileName, "profile", "", "Profile name (default: $"+config.EnvProfile+" or \"default\")")
	flags.StringVar(&a.configDir, "config-dir", ".", "Directory containing .crawlref/profiles.yaml")
	flags.BoolVar(&a.metrics, "metrics", false, "Serve Prometheus metrics on the profile's port")
	flags.IntVar(&a.metricsPort, "metrics-port", 0, "Serve Prometheus metrics on this port")

	root.AddCommand(
		newExtractCommand(a),
		newNormalizeCommand(a),
		newJoinCommand(a),
		newRootDomainCommand(),
		newDirectoriesCommand(a),
		newProfilesCommand(a),
		newMCPCommand(a),
		version.NewCommand(version.New("crawlref")),
	)
	a.withTeardown(root)
	return root
}

// withTeardown wraps every runnable command under cmd so that teardown runs
// even when the command fails.
func (a *app) withTeardown(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		a.withTeardown(c)
	}
	if cmd.RunE == nil {
		return
	}
	runE := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if terr := a.teardown(); err == nil {
				err = terr
			}
		}()
		return runE(cmd, args)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := cliout.SetFormat(a.output); err != nil {
		return err
	}

	profiles, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	if a.profile, err = profiles.Get(a.profileName); err != nil {
		return err
	}

	debug := a.debug || os.Getenv(logutil.EnvDebug) == "true"
	logutil.SetupLogger(debug, a.profile.LogFormat == "json")
	if !debug {
		logutil.SetLevel(a.profile.Level())
	}
	logutil.Debug("profile selected", "profile", a.profile.Name, "command", cmd.Name())

	port := a.profile.MetricsPort
	if cmd.Flags().Changed("metrics-port") {
		port = a.metricsPort
	} else if !a.metrics {
		port = 0
	}
	if port > 0 {
		a.startMetrics(port)
	}
	return nil
}

func (a *app) startMetrics(port int) {
	a.metricsServer = refextract.CreateMetricsServer(port)
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutil.Warn("metrics server stopped", "port", port, "error", err)
		}
	}()
	logutil.Info("serving metrics", "addr", a.metricsServer.Addr)
}

func (a *app) teardown() error {
	if a.metricsServer == nil {
		return nil
	}
	srv := a.metricsServer
	a.metricsServer = nil

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
