package types

import "fmt"

// Color is a packed 0xRRGGBBAA display color
type Color uint32

// Hex returns the color as "#RRGGBB"
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)>>8)
}

// Slot is one entry of a populated listing as a UI consumes it
type Slot struct {
	Name  string
	Color Color
	Data  *FileInfo
}

// Valid reports whether the slot carries an entry
func (s Slot) Valid() bool {
	return s.Data != nil
}
