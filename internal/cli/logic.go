package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idelchi/dupedirs/internal/diag"
	"github.com/idelchi/dupedirs/internal/dupedirs"
)

func logic(cmd *cobra.Command, options dupedirs.Options) error {
	log := logrus.NewEntry(diag.New(cmd.Root().Name(), options.Verbosity, cmd.ErrOrStderr()))

	enableProgress := options.Output != "json" &&
		options.Verbosity == 0 &&
		isatty.IsTerminal(os.Stderr.Fd())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var (
		bar          *progressbar.ProgressBar
		progressHook func(dirs int64)
	)

	if enableProgress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("scanning…"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)

		progressHook = func(dirs int64) {
			bar.Describe(fmt.Sprintf("scanning… %s directories", humanize.Comma(dirs)))
			_ = bar.Set64(dirs)
		}
	}

	result, err := dupedirs.Run(ctx, options, log, progressHook)

	// Clear the status line
	if bar != nil {
		_ = bar.Clear()
	}

	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch options.Output {
	case "json":
		err = PrintJSON(result, out)
	case "paths":
		err = PrintPaths(result, out)
	default:
		colorize := !color.NoColor && out == os.Stdout
		err = PrintText(result, out, colorize)
	}

	if err != nil {
		return err
	}

	summarize(log, result)

	return nil
}

// summarize reports the scan totals on the diagnostics stream.
func summarize(log *logrus.Entry, result *dupedirs.Result) {
	log.Infof("scanned %s directories (%s leaves, %s fingerprinted, %d unreadable) in %v",
		humanize.Comma(int64(result.DirCount)),
		humanize.Comma(int64(result.LeafCount)),
		humanize.Comma(int64(result.StampCount)),
		result.SkippedCount,
		result.Elapsed.Round(time.Millisecond),
	)

	if len(result.Groups) == 0 {
		log.Info("no duplicates found")

		return
	}

	log.Infof("duplicate groups: %d, reclaimable: %s",
		len(result.Groups), humanize.IBytes(uint64(result.Reclaimable()))) //nolint:gosec // Bytes is always positive
}
