package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cialist/internal/volume"
)

// sortEntries orders entries by name, case-insensitively, with raw byte
// order breaking ties. With dirsFirst, directories precede files.
func sortEntries(entries []volume.Entry, dirsFirst bool) {
	// Collators keep scratch buffers and must not be shared between scans
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortFunc(entries, func(a, b volume.Entry) int {
		if dirsFirst && a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
