package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/idelchi/dupedirs/internal/diag"
	"github.com/idelchi/dupedirs/internal/dupedirs"
)

// GroupHeader introduces every group in text output.
const GroupHeader = "duplicate directories:"

// PrintJSON outputs the scan result in JSON format.
func PrintJSON(result *dupedirs.Result, writer io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintText outputs each group as a header, one indented line per member and a blank line.
// Paths that are not valid UTF-8 are printed in escaped form.
func PrintText(result *dupedirs.Result, writer io.Writer, colorize bool) error {
	header := color.New(color.Bold)
	if !colorize {
		header.DisableColor()
	}

	for _, g := range result.Groups {
		if _, err := header.Fprintln(writer, GroupHeader); err != nil {
			return err
		}

		for _, p := range g.Paths {
			if _, err := fmt.Fprintf(writer, "  %s\n", diag.Safe(p)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
	}

	return nil
}

// PrintPaths outputs one "<group>\t<path>" line per member, numbering groups from 1.
// Paths are written unescaped so that consumers such as the shell integration can use them as is.
func PrintPaths(result *dupedirs.Result, writer io.Writer) error {
	for i, g := range result.Groups {
		for _, p := range g.Paths {
			if _, err := fmt.Fprintf(writer, "%d\t%s\n", i+1, p); err != nil {
				return err
			}
		}
	}

	return nil
}
