package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/observability"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/scripting"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/source"
	"github.com/AhmadAli88/IFrame-Pdf-Viewer/viewer"
)

type options struct {
	srcPath   string
	macroPath string
	outPath   string
	width     float64
	height    float64
	markup    bool
	verbose   bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "annotate: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "annotate: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/annotate -macro <macro.js> [flags] <pdf-path-or-url>\n")
		flag.PrintDefaults()
	}
	macro := flag.String("macro", "", "JavaScript macro that places the annotations (required)")
	out := flag.String("out", "", "Output path (default: the suggested filename)")
	width := flag.Float64("vw", 612, "Viewport width the macro coordinates refer to")
	height := flag.Float64("vh", 792, "Viewport height the macro coordinates refer to")
	markup := flag.Bool("markup", false, "Also attach highlights as native markup annotations")
	verbose := flag.Bool("v", false, "Log pipeline progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing document path or URL")
	}
	if *macro == "" {
		flag.Usage()
		return options{}, fmt.Errorf("missing -macro")
	}
	opts.srcPath = flag.Arg(0)
	opts.macroPath = *macro
	opts.outPath = *out
	opts.width = *width
	opts.height = *height
	opts.markup = *markup
	opts.verbose = *verbose
	return opts, nil
}

func run(opts options) error {
	script, err := os.ReadFile(opts.macroPath)
	if err != nil {
		return fmt.Errorf("read macro: %w", err)
	}

	var fetcher source.Fetcher
	if strings.HasPrefix(opts.srcPath, "http://") || strings.HasPrefix(opts.srcPath, "https://") {
		fetcher = &source.HTTPFetcher{URL: opts.srcPath}
	} else {
		fetcher = source.FileFetcher{Path: opts.srcPath}
	}

	var log observability.Logger = observability.NopLogger{}
	if opts.verbose {
		log = stderrLogger{}
	}

	sessOpts := []viewer.Option{
		viewer.WithLogger(log),
		viewer.WithAlert(func(msg string) { fmt.Println("macro:", msg) }),
	}
	if opts.markup {
		sessOpts = append(sessOpts, viewer.WithNativeMarkup())
	}
	session := viewer.NewSession(source.NewCachingFetcher(fetcher), sessOpts...)
	session.SetViewport(viewer.Box{Width: opts.width, Height: opts.height})

	engine := scripting.NewEngine()
	if err := engine.RegisterSession(session); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	if _, err := engine.Execute(context.Background(), string(script)); err != nil {
		return fmt.Errorf("run macro: %w", err)
	}

	res, err := session.Export(context.Background())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := opts.outPath
	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Wrote %s (%d bytes, %d annotations)\n", out, len(res.Data), res.Annotations)
	return nil
}

// stderrLogger prints structured fields as key=value pairs, one event
// per line.
type stderrLogger struct {
	fields []observability.Field
}

func (l stderrLogger) emit(level, msg string, fields []observability.Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %s", level, msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(os.Stderr, b.String())
}

func (l stderrLogger) Debug(msg string, fields ...observability.Field) { l.emit("DEBUG", msg, fields) }
func (l stderrLogger) Info(msg string, fields ...observability.Field)  { l.emit("INFO", msg, fields) }
func (l stderrLogger) Warn(msg string, fields ...observability.Field)  { l.emit("WARN", msg, fields) }
func (l stderrLogger) Error(msg string, fields ...observability.Field) { l.emit("ERROR", msg, fields) }

func (l stderrLogger) With(fields ...observability.Field) observability.Logger {
	return stderrLogger{fields: append(append([]observability.Field{}, l.fields...), fields...)}
}
