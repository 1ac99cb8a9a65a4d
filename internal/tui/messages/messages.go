package messages

import "time"

// ProgressMsg asks the model to pick up newly published entries
type ProgressMsg struct {
	Scan int
	Time time.Time
}

// ScanCompleteMsg is sent once the running scan has terminated
type ScanCompleteMsg struct {
	Scan      int
	Path      string
	Count     int
	Cancelled bool
	Error     error
}

// ErrorMsg carries a failure that did not come from a scan
type ErrorMsg struct {
	Err error
}

// DirectoryChangeMsg requests a listing of Path
type DirectoryChangeMsg struct {
	Path string
}
