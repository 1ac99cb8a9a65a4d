package common

import "cialist/pkg/types"

type Mode int

const (
	Normal Mode = iota
	Detail
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Slots() []types.Slot
	Selected() (types.Slot, bool)
	ShowHelp() bool
	Mode() Mode
	CurrentDir() string
	Loading() bool
	Err() error
}
