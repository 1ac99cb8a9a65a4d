package components

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"cialist/internal/tui/styles"
	"cialist/pkg/types"
)

// RenderDetails shows everything known about one entry
func RenderDetails(s types.Slot) string {
	if s.Data == nil {
		return ""
	}
	info := s.Data

	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(styles.Theme.Label.Render(fmt.Sprintf("%-14s", label)))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("Path", info.Path)
	if info.IsDirectory {
		row("Type", "Directory")
		return styles.Theme.Detail.Render(strings.TrimSuffix(sb.String(), "\n"))
	}
	row("Size", humanize.Bytes(info.Size))
	if !info.IsPackage || info.Package == nil {
		row("Type", "File")
		return styles.Theme.Detail.Render(strings.TrimSuffix(sb.String(), "\n"))
	}

	p := info.Package
	row("Type", "Installable package")
	row("Title ID", p.TitleIDString())
	row("Version", fmt.Sprintf("%d", p.Version))
	row("Install (SD)", humanize.Bytes(p.InstalledSizeSD))
	if p.InstalledSizeNAND > 0 {
		row("Install (NAND)", humanize.Bytes(p.InstalledSizeNAND))
	} else {
		row("Install (NAND)", "unavailable")
	}
	if info.HasMetadata() {
		row("Title", p.Resource.ShortDescription)
		row("Description", p.Resource.LongDescription)
		row("Publisher", p.Resource.Publisher)
	}
	return styles.Theme.Detail.Render(strings.TrimSuffix(sb.String(), "\n"))
}
