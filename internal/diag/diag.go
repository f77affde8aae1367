// Package diag builds the diagnostic sink shared by every stage of a scan.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// New returns a logger tagged with prog whose level follows the number of -v flags.
func New(prog string, verbosity int, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(Level(verbosity))
	logger.SetFormatter(&Formatter{Prog: prog})

	return logger
}

// Level maps a verbosity count to a logrus level.
func Level(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.WarnLevel
	case verbosity == 1:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// Formatter renders entries as "prog: LEVEL: message key=value ...".
type Formatter struct {
	Prog string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	level := strings.ToUpper(entry.Level.String())
	if entry.Level == logrus.WarnLevel {
		level = "WARNING"
	}

	fmt.Fprintf(&buf, "%s: %s: %s", f.Prog, level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%s", k, quoteIfNeeded(fmt.Sprint(entry.Data[k])))
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") || !utf8.ValidString(s) {
		return strconv.QuoteToASCII(s)
	}

	return s
}

// Safe returns s unchanged when it is valid UTF-8, otherwise an ASCII-escaped quoted form.
// Only for display: never feed the result back into a filesystem call or a digest.
func Safe(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	return strconv.QuoteToASCII(s)
}
