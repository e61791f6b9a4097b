package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/seek"
	"github.com/poiesic/seek/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

func queryCommand(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return fmt.Errorf("query takes exactly one PATTERN argument")
	}
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}

	search, err := buildSearch(c)
	if err != nil {
		return err
	}
	r, err := buildRange(c)
	if err != nil {
		return err
	}

	var (
		registry *prometheus.Registry
		opts     []seek.Option
	)
	metricsFile := c.String("metrics-file")
	if metricsFile != "" {
		registry = prometheus.NewRegistry()
		monitor, err := metrics.NewPrometheusMonitor(registry)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		opts = append(opts, seek.WithMonitor(monitor))
	}

	x, closeEngine, err := openExecutor(c.Context, cfg, opts...)
	if err != nil {
		return err
	}
	defer closeInto(closeEngine, &err)

	items, err := x.QueryRange(search, r)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if c.Bool("json") {
		err = writeJSON(c.App.Writer, items)
	} else {
		err = writeTable(c.App.Writer, items, search.Metadata())
	}
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if registry != nil {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func buildSearch(c *cli.Context) (seek.Search, error) {
	pattern := c.Args().First()
	search := seek.NewSearch(pattern)
	if c.Bool("regex") {
		search = seek.NewRegexSearch(pattern)
	}

	key, err := seek.ParseSortKey(c.String("sort"))
	if err != nil {
		return seek.Search{}, err
	}
	order := seek.Ascending
	if c.Bool("desc") {
		order = seek.Descending
	}

	metadata, err := seek.ParseMetadata(c.StringSlice("meta")...)
	if err != nil {
		return seek.Search{}, err
	}

	return search.
		MatchCase(c.Bool("case")).
		MatchPath(c.Bool("path")).
		MatchWholeWord(c.Bool("whole-word")).
		SortBy(key, order).
		RequestMetadata(metadata), nil
}

// buildRange reads either --range or --offset/--limit.
func buildRange(c *cli.Context) (seek.Range, error) {
	if c.IsSet("range") {
		if c.IsSet("offset") || c.IsSet("limit") {
			return seek.Range{}, fmt.Errorf("--range cannot be combined with --offset or --limit")
		}
		return seek.ParseRange(c.String("range"))
	}

	offset, limit := c.Int("offset"), c.Int("limit")
	if offset < 0 || limit < 0 {
		return seek.Range{}, fmt.Errorf("--offset and --limit must not be negative")
	}
	if limit == 0 || limit > math.MaxInt-offset {
		return seek.From(offset), nil
	}
	return seek.Span(offset, offset+limit), nil
}

func writeJSON(w io.Writer, items []seek.Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// writeTable prints one line per item: its type, the requested metadata
// columns, then the path. Unavailable values print as "-".
func writeTable(w io.Writer, items []seek.Item, metadata seek.Metadata) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, item := range items {
		cols := []string{item.Type.String()}
		for _, kind := range metadata.Kinds() {
			cols = append(cols, column(item, kind))
		}
		cols = append(cols, item.Path)
		if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func column(item seek.Item, kind seek.Metadata) string {
	const missing = "-"
	formatTime := func(t *time.Time) string {
		if t == nil {
			return missing
		}
		return t.Local().Format(time.DateTime)
	}

	switch kind {
	case seek.MetadataSize:
		if item.Size == nil {
			return missing
		}
		return humanize.IBytes(*item.Size)
	case seek.MetadataDateCreated:
		return formatTime(item.DateCreated)
	case seek.MetadataDateModified:
		return formatTime(item.DateModified)
	case seek.MetadataDateAccessed:
		return formatTime(item.DateAccessed)
	case seek.MetadataAttributes:
		if item.Attributes == nil {
			return missing
		}
		return fmt.Sprintf("0x%08x", *item.Attributes)
	}
	return missing
}
