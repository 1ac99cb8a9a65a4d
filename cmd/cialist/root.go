package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cialist/internal/config"
	"cialist/internal/listing"
	"cialist/internal/log"
	"cialist/internal/render"
	"cialist/internal/report"
	"cialist/internal/task"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

// app holds what every subcommand shares once the root has run
type app struct {
	cfgFile string
	debug   bool
	jsonLog bool
	lang    string

	cfg      *config.Config
	shutdown *task.Token
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{shutdown: task.NewToken()}

	rootCmd := &cobra.Command{
		Use:     "cialist",
		Short:   "Browse directories of installable packages",
		Long:    `cialist lists directories on a storage volume and shows title, publisher, icon and install size for every installable package it finds.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/cialist/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.jsonLog, "json-log", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&a.lang, "lang", "", "Title language (BCP 47 tag, default is the system language)")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))
	rootCmd.AddCommand(newTUICmd(a))
	rootCmd.AddCommand(newWatchCmd(a))

	return rootCmd
}

// setup loads the configuration and configures logging
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadConfigFile(a.cfgFile)
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}
	if a.lang != "" {
		a.cfg.Locale.Language = a.lang
	}

	opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
	if a.jsonLog || a.cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if a.cfg.Log.File != "" {
		opts = append(opts, log.WithFile(a.cfg.Log.File))
	}
	log.Configure(opts...)
	log.SetDebug(a.debug || a.cfg.Log.Debug)
	return nil
}

// populator builds a Populator reporting through the default logger
func (a *app) populator(store *render.Store) (*listing.Populator, error) {
	return listing.NewPopulator(
		listing.WithConfig(a.cfg),
		listing.WithRenderer(store),
		listing.WithReporter(report.Log{Logger: log.Default()}),
		listing.WithShutdown(a.shutdown),
		listing.WithLogger(log.Default()),
	)
}

// listDirectory runs one scan of dir to completion
func (a *app) listDirectory(pop *listing.Populator, dir string, capacity int) (*listing.List, *types.FileInfo, error) {
	vol, err := volume.NewOS(dir)
	if err != nil {
		return nil, nil, err
	}
	if capacity <= 0 {
		capacity = a.cfg.Listing.Capacity
	}

	list := listing.NewList(capacity)
	root := types.NewDirectory(vol, "/")
	h, err := pop.Populate(list, root)
	if err != nil {
		return nil, nil, err
	}
	if err := h.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", listing.ListingFailedMessage, err)
	}
	return list, root, nil
}

// exportScale returns the --scale flag when it was given and the
// configured scale otherwise
func (a *app) exportScale(cmd *cobra.Command, flag int) (int, error) {
	if !cmd.Flags().Changed("scale") {
		return a.cfg.Icons.ExportScale, nil
	}
	if err := config.ValidateExportScale(flag); err != nil {
		return 0, fmt.Errorf("--scale: %w", err)
	}
	return flag, nil
}

// iconPath names the exported icon of a package entry
func iconPath(dir string, info *types.FileInfo) string {
	return filepath.Join(dir, info.Package.TitleIDString()+".png")
}
