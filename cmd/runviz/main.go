// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Runviz groups experiment runs and renders them as a table and as
// parallel-coordinates charts.
//
// Usage:
//
//	runviz [flags] runs.jsonl...
//	runviz [flags] -server url [-q query]
//
// Each input file holds one JSON run record per line. With no files
// and no -server, runviz reads standard input.
//
// # Grouping
//
// Runs are grouped on three independent axes. Runs that differ in the
// fields of the -color axis get different colors, runs that differ in
// the fields of -stroke get different dash patterns, and runs that
// differ in the fields of -chart are drawn in different charts. Each
// flag takes a comma-separated list of fields, such as
// "run.params.hparams.lr,run.experiment_name".
//
// The -reverse flag lists the axes that group by every available
// field except the ones listed. The -persistent flag lists the axes
// whose colors or dash patterns are derived from the group values
// instead of the order groups are seen in, so a group keeps its
// color when other runs come and go.
//
// # Charts
//
// Each -dim flag adds a chart dimension. A dimension is either a
// parameter path, such as "hparams.lr", or a metric in the form
// "metric:name[:key=value...]", such as "metric:loss:subset=train".
// With -png, runviz writes one image per chart to the given
// directory.
//
// # Output
//
// The -format flag selects text, csv, json or html output. With -o,
// output is written to a file instead of standard output; a name of
// the form gs://bucket/object writes to Google Cloud Storage. If the
// name ends in a slash, CSV output is named after the time of export.
//
// # Configuration
//
// With -config file.db, runviz reads its view configuration from an
// SQLite database before applying the flags, and with -save it
// writes the resulting configuration back.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/runviz/runfmt"
	"golang.org/x/runviz/runproc"
	"golang.org/x/runviz/runseries"
	"golang.org/x/runviz/runtab"
	"golang.org/x/runviz/storage"
	"golang.org/x/runviz/storage/db"
	_ "golang.org/x/runviz/storage/db/sqlite3"
	"golang.org/x/runviz/storage/fs"
	"golang.org/x/runviz/storage/fs/gcs"
	"golang.org/x/runviz/storage/fs/local"
	"golang.org/x/runviz/view"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {
	if err := runviz(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "runviz: %s\n", err)
		}
		os.Exit(2)
	}
}

// dimsFlag is a repeatable flag listing chart dimensions.
type dimsFlag []runseries.DimensionSpec

func (f *dimsFlag) String() string {
	var s []string
	for _, d := range *f {
		s = append(s, d.Key())
	}
	return strings.Join(s, " ")
}

func (f *dimsFlag) Set(s string) error {
	d, err := parseDim(s)
	if err != nil {
		return err
	}
	*f = append(*f, d)
	return nil
}

// parseDim parses a parameter path or "metric:name[:key=value...]".
func parseDim(s string) (runseries.DimensionSpec, error) {
	if !strings.HasPrefix(s, "metric:") {
		if s == "" {
			return runseries.DimensionSpec{}, fmt.Errorf("empty dimension")
		}
		return runseries.ParamDimension(s), nil
	}
	parts := strings.Split(strings.TrimPrefix(s, "metric:"), ":")
	if parts[0] == "" {
		return runseries.DimensionSpec{}, fmt.Errorf("dimension %q: missing metric name", s)
	}
	ctx := make(map[string]interface{})
	for _, kv := range parts[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return runseries.DimensionSpec{}, fmt.Errorf("dimension %q: bad context %q, want key=value", s, kv)
		}
		ctx[k] = v
	}
	return runseries.MetricDimension(parts[0], ctx), nil
}

// splitList splits a comma-separated flag value, dropping empty
// elements.
func splitList(s string) []string {
	out := []string{}
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// parseAxes parses a comma-separated list of axis names.
// setAxes applies set to every axis of g, with on reporting whether
// the axis is listed in value.
func setAxes(g *runproc.Config, name, value string, set func(ac *runproc.AxisConfig, on bool)) error {
	axes, err := parseAxes(value)
	if err != nil {
		return fmt.Errorf("-%s: %v", name, err)
	}
	for _, a := range runproc.Axes {
		set(g.Axis(a), axes[a])
	}
	return nil
}

func parseAxes(s string) (map[runproc.Axis]bool, error) {
	axes := make(map[runproc.Axis]bool)
	for _, name := range splitList(s) {
		a, err := runproc.ParseAxis(name)
		if err != nil {
			return nil, err
		}
		axes[a] = true
	}
	return axes, nil
}

func runviz(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("runviz", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: runviz [flags] runs.jsonl...
       runviz [flags] -server url [-q query]

`)
		flags.PrintDefaults()
	}

	var dims dimsFlag
	flags.Var(&dims, "dim", "add a chart `dimension`: a parameter path or metric:name[:key=value...]")
	var (
		flagColor      = flags.String("color", "", "group colors by `fields`")
		flagStroke     = flags.String("stroke", "", "group dash patterns by `fields`")
		flagChart      = flags.String("chart", "", "group charts by `fields`")
		flagReverse    = flags.String("reverse", "", "group `axes` by every field except the listed ones")
		flagPersistent = flags.String("persistent", "", "derive slots on `axes` from group values")
		flagOff        = flags.String("off", "", "disable grouping on `axes`")
		flagSeed       = flags.Int("seed", 0, "persistent slot `seed` of the color and stroke axes")
		flagPalette    = flags.Int("palette", 0, "color palette `index`")
		flagSort       = flags.String("sort", "", "sort rows by `fields`, each column[:asc|:desc]")
		flagHide       = flags.String("hide", "", "hide the runs with these `hashes`, or all")
		flagHideCols   = flags.String("hidecols", "", "hide table `columns`")
		flagQuery      = flags.String("q", "", "fetch runs matching `query` from -server")
		flagServer     = flags.String("server", "", "fetch runs from the server at `url`")
		flagFormat     = flags.String("format", "text", "print results in `format`: text, csv, json, html")
		flagOut        = flags.String("o", "", "write results to `file` (or gs://bucket/object)")
		flagPNG        = flags.String("png", "", "write one PNG chart per chart index into `dir`")
		flagConfig     = flags.String("config", "", "read the view configuration from sqlite `file`")
		flagSave       = flags.Bool("save", false, "store the view configuration in the -config file")
		flagCreds      = flags.String("credentials", "", "Google Cloud credentials `file` for gs:// output")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	switch *flagFormat {
	case "text", "csv", "json", "html":
	default:
		return fmt.Errorf("unknown format %q", *flagFormat)
	}
	if *flagSave && *flagConfig == "" {
		return fmt.Errorf("-save requires -config")
	}
	if *flagServer != "" && flags.NArg() > 0 {
		return fmt.Errorf("cannot read files with -server")
	}

	ctx := context.Background()
	logger := log.New(stderr, "runviz: ", 0)

	// Start from the stored configuration, if any.
	cfg := view.DefaultConfig()
	var store *db.DB
	if *flagConfig != "" {
		var err error
		store, err = db.OpenSQL("sqlite3", *flagConfig)
		if err != nil {
			return fmt.Errorf("opening config: %v", err)
		}
		defer store.Close()
		cfg, err = view.LoadConfig(ctx, store, logger.Printf)
		if err != nil {
			return err
		}
	}

	// Apply only the flags that were given, so stored settings
	// survive.
	var flagErr error
	flags.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		g := &cfg.Grouping
		switch f.Name {
		case "color":
			g.Color.Fields = splitList(*flagColor)
		case "stroke":
			g.Stroke.Fields = splitList(*flagStroke)
		case "chart":
			g.Chart.Fields = splitList(*flagChart)
		case "reverse":
			flagErr = setAxes(g, "reverse", *flagReverse, func(ac *runproc.AxisConfig, on bool) { ac.Reverse = on })
		case "persistent":
			flagErr = setAxes(g, "persistent", *flagPersistent, func(ac *runproc.AxisConfig, on bool) { ac.Persistent = on })
		case "off":
			flagErr = setAxes(g, "off", *flagOff, func(ac *runproc.AxisConfig, on bool) { ac.Applied = !on })
		case "seed":
			g.Color.Seed, g.Stroke.Seed = *flagSeed, *flagSeed
		case "palette":
			g.PaletteIndex = *flagPalette
		case "dim":
			cfg.Select.Params = []runseries.DimensionSpec(dims)
		case "q":
			cfg.Select.Query = *flagQuery
		case "sort":
			cfg.Table.SortFields = []runtab.SortField{}
			for _, s := range splitList(*flagSort) {
				sf, err := runtab.ParseSortField(s)
				if err != nil {
					flagErr = fmt.Errorf("-sort: %v", err)
					return
				}
				cfg.Table.SortFields = append(cfg.Table.SortFields, sf)
			}
		case "hide":
			cfg.Table.HiddenMetrics = splitList(*flagHide)
		case "hidecols":
			cfg.Table.HiddenColumns = splitList(*flagHideCols)
		}
	})
	if flagErr != nil {
		return flagErr
	}

	s := view.New(cfg)
	var runs []*runfmt.Run
	var err error
	if *flagServer != "" {
		client := &storage.Client{BaseURL: strings.TrimSuffix(*flagServer, "/")}
		runs, err = view.NewLoader(client).Load(ctx, cfg.Select.Query)
	} else {
		runs, err = readFiles(flags.Args(), logger.Printf)
	}
	if err != nil {
		return err
	}
	s = s.WithRuns(runs)
	for _, n := range s.Notifications {
		if n.Severity == "error" {
			return errors.New(n.Message)
		}
	}

	if *flagSave {
		if err := view.SaveConfig(ctx, store, s.Config); err != nil {
			return err
		}
	}

	if *flagPNG != "" {
		titles := make(map[int]string)
		for i, t := range s.ChartTitles {
			titles[i] = runproc.FormatTitle(t)
		}
		if err := runseries.WritePNGFiles(*flagPNG, s.Charts, titles); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	fileName := "runs." + *flagFormat
	switch *flagFormat {
	case "text":
		err = runtab.WriteText(&buf, s.Rows, s.Columns)
	case "csv":
		var header []string
		var records []runtab.Record
		header, records, fileName = s.Export()
		err = runtab.WriteCSV(&buf, header, records)
	case "json":
		var data []byte
		data, err = json.MarshalIndent(s, "", "\t")
		buf.Write(append(data, '\n'))
	case "html":
		buf.WriteString(htmlHeader)
		err = runtab.WriteHTML(&buf, s.Rows, s.Columns)
		buf.WriteString(htmlFooter)
	}
	if err != nil {
		return err
	}

	if *flagOut == "" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	return writeOutput(ctx, *flagOut, fileName, buf.Bytes(), *flagCreds)
}

// readFiles reads the runs of every file in paths, in parallel, and
// returns them in file order. With no paths, it reads standard input.
func readFiles(paths []string, warn func(format string, args ...interface{})) ([]*runfmt.Run, error) {
	if len(paths) == 0 {
		return runfmt.ReadAll(runfmt.NewReader(os.Stdin, "<stdin>"), warn)
	}
	perFile := make([][]*runfmt.Run, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer f.Close()
			perFile[i], err = runfmt.ReadAll(runfmt.NewReader(f, p), warn)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var runs []*runfmt.Run
	for _, rs := range perFile {
		runs = append(runs, rs...)
	}
	return runs, nil
}

// writeOutput writes data to out, which is a local path or a
// gs://bucket/object URL. If out ends in a slash, fileName is
// appended.
func writeOutput(ctx context.Context, out, fileName string, data []byte, creds string) error {
	if strings.HasSuffix(out, "/") {
		out += fileName
	}
	if rest, ok := strings.CutPrefix(out, "gs://"); ok {
		bucket, object, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || object == "" {
			return fmt.Errorf("bad output %q: want gs://bucket/object", out)
		}
		var opts []option.ClientOption
		if creds != "" {
			opts = append(opts, option.WithCredentialsFile(creds))
		}
		fs, err := gcs.NewFS(ctx, bucket, opts...)
		if err != nil {
			return err
		}
		return writeFile(ctx, fs, object, data)
	}
	return writeFile(ctx, local.NewFS(filepath.Dir(out)), filepath.Base(out), data)
}

// writeFile writes data to name in fs.
func writeFile(ctx context.Context, fs fs.FS, name string, data []byte) error {
	meta := map[string]string{"upload-time": time.Now().UTC().Format(time.RFC3339)}
	w, err := fs.NewWriter(ctx, name, meta)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Runs</title>
<style>
.runs { border-collapse: collapse; }
.runs th { text-align: left; border-bottom: 1px solid #666; }
.runs td { padding: 0em 1em; }
.runs tr.group td { border-top: 1px solid #ccc; font-weight: bold; }
.runs .hidden { color: #999; }
</style>
</head>
<body>
`
var htmlFooter = `</body>
</html>
`
