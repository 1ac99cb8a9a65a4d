package report_test

import (
	"bytes"
	"testing"

	"cialist/internal/errors"
	"cialist/internal/log"
	"cialist/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	rec := report.NewRecorder()
	cause := errors.New("disk gone")

	rec.Report(errors.DirectoryOpenFailed, "Failed to load file listing.", cause)
	rec.Report(errors.DirectoryReadFailed, "Failed to load file listing.", nil)

	select {
	case <-rec.Notify():
	default:
		t.Fatal("expected a notification")
	}

	got := rec.Reports()
	require.Len(t, got, 2)
	assert.Equal(t, errors.DirectoryOpenFailed, got[0].Kind)
	assert.Equal(t, cause, got[0].Err)
	assert.Equal(t, 2, rec.Len())
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := report.Log{Logger: log.NewLogger(log.WithOutput(&buf))}

	r.Report(errors.OutOfMemory, "Failed to load file listing.", errors.ErrOutOfMemory)

	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "Failed to load file listing.")
	assert.Contains(t, out, "kind=out_of_memory")
}
