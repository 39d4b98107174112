// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trimmer-cli/trimmer/history"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/source"
	"github.com/trimmer-cli/trimmer/style"
	"github.com/trimmer-cli/trimmer/util"
)

// Run resolves the input, applies the selector and writes the result.
// Track failures of single items are collected and returned after the output is written.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	// Step 1: Resolve the reference into items.
	items, err := options.Source.Titles(ctx, options.Input)
	if err != nil {
		return err
	}

	if err := history.Save(history.NewRecord(options.Source.ID(), options.Input, options.Mode, items)); err != nil {
		log.Warnf("failed to save history: %v", err)
	}

	// Step 2: Apply the selector.
	if filter, ok := options.ItemsFilter.Get(); ok {
		if items, err = filter(items); err != nil {
			return err
		}
	}

	// Step 3: Fetch tracks for the selected subset.
	entries := make([]*Entry, len(items))
	var errs *multierror.Error
	for i, item := range items {
		entries[i] = &Entry{Item: item}
		if !options.Tracks {
			continue
		}

		tracks, err := options.Source.Tracks(ctx, item)
		if err != nil {
			log.WithFields(map[string]any{"provider": options.Source.ID(), "item": item.ID}).
				Warnf("failed to fetch tracks for %s: %v", item, err)
			entries[i].Error = err.Error()
			errs = multierror.Append(errs, multierror.Prefix(err, fmt.Sprintf("[%s]", item.ID)))
			continue
		}
		entries[i].Tracks = tracks
	}

	// Step 4: Write the result.
	if options.Json {
		if err := writeJson(options.Out, options.Source.ID(), options.Input, entries); err != nil {
			return err
		}
	} else if err := writeText(options.Out, entries); err != nil {
		return err
	}

	return errs.ErrorOrNil()
}

func writeJson(out io.Writer, provider, input string, entries []*Entry) error {
	data, err := asJson(provider, input, entries)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func writeText(out io.Writer, entries []*Entry) error {
	width := util.Max(lo.Map(entries, func(entry *Entry, _ int) int {
		return len(entry.Item.ID)
	})...)

	for _, entry := range entries {
		if _, err := fmt.Fprintf(out, "%-*s  %s\n", width, entry.Item.ID, entry.Item); err != nil {
			return err
		}

		if entry.Tracks == nil {
			continue
		}
		if _, err := fmt.Fprintln(out, RenderTracks(entry.Tracks)); err != nil {
			return err
		}
	}
	return nil
}

// RenderTracks lays out tracks as a table, best video first.
func RenderTracks(tracks *source.Tracks) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Type", "ID", "Codec", "Language", "Bitrate", "Details"})

	for _, v := range tracks.Videos {
		details := fmt.Sprintf("%dx%d %s", v.Width, v.Height, v.Range)
		if v.FrameRate > 0 {
			details += " " + strconv.FormatFloat(v.FrameRate, 'f', -1, 64) + "fps"
		}
		if v.NeedsRepack {
			details += " repack"
		}
		tw.AppendRow(table.Row{style.Kind("video"), v.ID, v.Codec, v.Language, bitrate(v.Bitrate), details})
	}
	for _, a := range tracks.Audios {
		tw.AppendRow(table.Row{style.Kind("audio"), a.ID, a.Codec, a.Language, bitrate(a.Bitrate), a.Name})
	}
	for _, s := range tracks.Subtitles {
		details := s.Name
		if s.Forced {
			details += " (forced)"
		}
		tw.AppendRow(table.Row{style.Kind("subtitle"), s.ID, s.Codec, s.Language, "", details})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func bitrate(bps int64) string {
	if bps <= 0 {
		return ""
	}
	return humanize.SIWithDigits(float64(bps), 1, "bps")
}
