package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cialist/internal/config"
	"cialist/internal/listing"
	"cialist/internal/log"
	"cialist/internal/render"
	"cialist/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		capacity   int
		iconDir    string
		scale      int
	)

	cmd := &cobra.Command{
		Use:     "ls [directory]",
		Aliases: []string{"list"},
		Short:   "List a directory",
		Long:    `List a directory with installable packages described by title, title ID and install size. Directories come first.`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			iconScale, err := a.exportScale(cmd, scale)
			if err != nil {
				return err
			}

			store := render.NewStore()
			pop, err := a.populator(store)
			if err != nil {
				return err
			}
			list, root, err := a.listDirectory(pop, dir, capacity)
			if err != nil {
				return err
			}
			defer func() {
				if err := pop.Clear(list); err != nil {
					log.LogError(err, "Failed to clear listing")
				}
			}()

			if iconDir != "" {
				n, err := exportIcons(store, list, iconDir, iconScale)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), successText(fmt.Sprintf("Exported %d icons to %s", n, iconDir)))
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			writeTable(cmd.OutOrStdout(), list, root.ContainsPackages.Load())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output the listing as JSON")
	cmd.Flags().IntVarP(&capacity, "capacity", "n", 0, "Maximum entries to list (default from config)")
	cmd.Flags().StringVar(&iconDir, "icons", "", "Export package icons as PNG into this directory")
	cmd.Flags().IntVar(&scale, "scale", 0, fmt.Sprintf("Icon export scale factor, %d to %d (default from config)", config.MinExportScale, config.MaxExportScale))

	return cmd
}

func writeJSON(w io.Writer, list *listing.List) error {
	entries := make([]*types.FileInfo, 0, list.Len())
	for _, s := range list.Slots() {
		entries = append(entries, s.Data)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeTable(w io.Writer, list *listing.List, packages bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range list.Slots() {
		info := s.Data
		switch {
		case info.IsDirectory:
			fmt.Fprintf(tw, "%s/\t\t\t\n", s.Name)
		case info.HasMetadata():
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, humanize.Bytes(info.Size),
				info.Package.TitleIDString(), info.Package.Resource.ShortDescription)
		case info.IsPackage:
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", s.Name, humanize.Bytes(info.Size), info.Package.TitleIDString())
		default:
			fmt.Fprintf(tw, "%s\t%s\t\t\n", s.Name, humanize.Bytes(info.Size))
		}
	}
	tw.Flush()

	summary := fmt.Sprintf("%d entries", list.Len())
	if packages {
		summary += ", contains packages"
	}
	fmt.Fprintln(w, labelText(summary))
}

func hasPackages(list *listing.List) bool {
	for _, s := range list.Slots() {
		if s.Data.IsPackage {
			return true
		}
	}
	return false
}

// exportIcons writes the icon of every package with metadata into dir
func exportIcons(store *render.Store, list *listing.List, dir string, scale int) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create icon directory: %w", err)
	}
	n := 0
	for _, s := range list.Slots() {
		if !s.Data.HasMetadata() {
			continue
		}
		if err := store.Export(s.Data.Package.Resource.Icon, iconPath(dir, s.Data), scale); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
