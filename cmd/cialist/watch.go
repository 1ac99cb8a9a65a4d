package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cialist/internal/listing"
	"cialist/internal/render"
	"cialist/internal/volume"
	"cialist/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Re-list a directory whenever it changes",
		Long:  `Watch a directory and print a fresh listing after every change. A change during a scan cancels it and starts over.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			vol, err := volume.NewOS(dir)
			if err != nil {
				return err
			}
			pop, err := a.populator(render.NewStore())
			if err != nil {
				return err
			}
			if capacity <= 0 {
				capacity = a.cfg.Listing.Capacity
			}

			list := listing.NewList(capacity)
			daemon, err := watch.NewDaemon(a.cfg, pop, vol, "/", list)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			daemon.SetCallback(func(l *listing.List, err error) {
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), errorText(listing.ListingFailedMessage+" "+err.Error()))
					return
				}
				fmt.Fprintln(out, headerText(vol.Root()))
				writeTable(out, l, hasPackages(l))
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := daemon.Start(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), infoText("Watching "+vol.Root()+". Press Ctrl+C to stop."))

			<-ctx.Done()
			a.shutdown.Quit()
			daemon.Stop()
			pop.Wait()
			if err := pop.Clear(list); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), successText("Watch stopped"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&capacity, "capacity", "n", 0, "Maximum entries per listing (default from config)")

	return cmd
}
