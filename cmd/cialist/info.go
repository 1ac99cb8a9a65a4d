package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cialist/internal/config"
	"cialist/internal/render"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

func newInfoCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		iconFile   string
		scale      int
	)

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Show package details for one file",
		Long:  `Inspect one file and print its title ID, version, install sizes and metadata when it is an installable package.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iconScale, err := a.exportScale(cmd, scale)
			if err != nil {
				return err
			}
			host, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			vol, err := volume.NewOS(filepath.Dir(host))
			if err != nil {
				return err
			}

			store := render.NewStore()
			pop, err := a.populator(store)
			if err != nil {
				return err
			}
			info, err := pop.Describe(vol, "/"+filepath.Base(host))
			if err != nil {
				return err
			}
			if info.HasMetadata() {
				defer store.UnloadIcon(info.Package.Resource.Icon)
			}

			if iconFile != "" {
				if !info.HasMetadata() {
					return fmt.Errorf("%s has no icon", info.Name)
				}
				if err := store.Export(info.Package.Resource.Icon, iconFile, iconScale); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), successText("Icon written to "+iconFile))
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			writeInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output results in JSON format")
	cmd.Flags().StringVar(&iconFile, "icon", "", "Write the package icon to this PNG file")
	cmd.Flags().IntVar(&scale, "scale", 0, fmt.Sprintf("Icon export scale factor, %d to %d (default from config)", config.MinExportScale, config.MaxExportScale))

	return cmd
}

func writeInfo(w io.Writer, info *types.FileInfo) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelText(fmt.Sprintf("%-15s", label+":")), value)
	}

	fmt.Fprintln(w, headerText(info.Name))
	row("Size", humanize.Bytes(info.Size))
	if !info.IsPackage {
		fmt.Fprintln(w, infoText("Not an installable package"))
		return
	}

	p := info.Package
	row("Title ID", p.TitleIDString())
	row("Version", fmt.Sprintf("%d", p.Version))
	row("Install (SD)", humanize.Bytes(p.InstalledSizeSD))
	if p.InstalledSizeNAND > 0 {
		row("Install (NAND)", humanize.Bytes(p.InstalledSizeNAND))
	} else {
		row("Install (NAND)", "unavailable")
	}
	if !info.HasMetadata() {
		fmt.Fprintln(w, infoText("No title metadata"))
		return
	}
	row("Title", p.Resource.ShortDescription)
	row("Description", p.Resource.LongDescription)
	row("Publisher", p.Resource.Publisher)
}
