package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phroun/vim-fmi/client"
	"github.com/phroun/vim-fmi/config"
	"github.com/phroun/vim-fmi/logging"
)

// app carries what every subcommand needs once flags and config are loaded.
type app struct {
	configPath string
	host       string
	logLevel   string

	cfg    config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "vimfmi",
		Short:         "Client for the Vim course at FMI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return a.logger.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is <user config dir>/vim-fmi-cli/config.yaml)")
	root.PersistentFlags().StringVar(&a.host, "host", "", "exercise server URL")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newSetupCmd(a),
		newPutCmd(a),
		newDecodeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.host != "" {
		cfg.Host = a.host
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger, err = logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Log.JSON,
		Dir:     cfg.Log.Dir,
		Service: "vimfmi",
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		a.logger.Warn("file logging disabled", "error", err)
	}
	a.logger.Debug("config loaded", "path", path, "host", cfg.Host)
	return nil
}

func (a *app) client() (*client.Client, error) {
	return client.New(a.cfg.Host,
		client.WithLogger(a.logger.Logger),
		client.WithVersion(version))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
