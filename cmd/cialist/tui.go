package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cialist/internal/render"
	"cialist/internal/tui"
	"cialist/internal/volume"
)

func newTUICmd(a *app) *cobra.Command {
	var capacity int

	cmd := &cobra.Command{
		Use:   "tui [directory]",
		Short: "Browse interactively",
		Long:  `Browse a directory tree in the terminal. Listings load in the background and can be cancelled.`,
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

			p := tea.NewProgram(tui.New(pop, vol, "/", capacity), tea.WithAltScreen())
			_, err = p.Run()
			a.shutdown.Quit()
			pop.Wait()
			return err
		},
	}

	cmd.Flags().IntVarP(&capacity, "capacity", "n", 0, "Maximum entries per listing (default from config)")

	return cmd
}
