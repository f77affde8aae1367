package diag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      logrus.Level
	}{
		{-1, logrus.WarnLevel},
		{0, logrus.WarnLevel},
		{1, logrus.InfoLevel},
		{2, logrus.DebugLevel},
		{5, logrus.DebugLevel},
	}

	for _, tt := range tests {
		if got := Level(tt.verbosity); got != tt.want {
			t.Errorf("Level(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestFormatter(t *testing.T) {
	var buf bytes.Buffer

	log := New("dupedirs", 0, &buf)

	log.Info("hidden at verbosity 0")
	log.WithField("dir", "a b").WithError(errors.New("gone")).Warn("stat failed")

	want := "dupedirs: WARNING: stat failed dir=\"a b\" error=gone\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatterDebug(t *testing.T) {
	var buf bytes.Buffer

	log := New("prog", 2, &buf)
	log.Debug("visiting .")

	if got, want := buf.String(), "prog: DEBUG: visiting .\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSafe(t *testing.T) {
	if got := Safe("plain/dir"); got != "plain/dir" {
		t.Errorf("Safe changed a valid string: %q", got)
	}

	if got, want := Safe("bad\xffname"), `"bad\xffname"`; got != want {
		t.Errorf("Safe = %q, want %q", got, want)
	}
}
