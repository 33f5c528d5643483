// Command summarize runs one summarization from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"docsummarizer/internal/app"
	"docsummarizer/internal/config"
	"docsummarizer/internal/domain"
	"docsummarizer/internal/pipeline"
)

const spinnerInterval = 100 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("summarize", flag.ContinueOnError)
	flags.SetOutput(stderr)

	kind := flags.String("kind", string(domain.SourceKindWebPage),
		"source kind: "+strings.Join(kindNames(), ", "))
	quiet := flags.Bool("quiet", false, "do not show the progress spinner")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: summarize [-kind %s] <url-or-path>\n", strings.Join(kindNames(), "|"))
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	src, err := sourceFromArgs(*kind, flags.Args())
	if err != nil {
		fmt.Fprintln(stderr, pipeline.DisplayMessage(err))
		flags.Usage()

		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, pipeline.DisplayMessage(err))

		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Logs go to stderr so stdout carries only the summary.
	log := app.NewLogger(stderr, cfg.LogLevel)

	p, closePipeline, err := app.NewPipeline(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(stderr, pipeline.DisplayMessage(err))

		return 1
	}
	defer closePipeline()

	var res pipeline.Result
	err = withProgress(ctx, stderr, *quiet, "Reading and summarizing "+string(src.Kind), func() error {
		var runErr error
		res, runErr = p.Run(ctx, src)

		return runErr
	})
	if err != nil {
		fmt.Fprintln(stderr, pipeline.DisplayMessage(err))

		return 1
	}

	fmt.Fprintf(stdout, "# %s\n\n%s\n", res.Document.Title, res.Summary)

	return 0
}

func sourceFromArgs(rawKind string, args []string) (domain.Source, error) {
	kind, err := domain.ParseSourceKind(rawKind)
	if err != nil {
		return domain.Source{}, err
	}

	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return domain.Source{}, fmt.Errorf("expected exactly one URL or path, got %d arguments", len(args))
	}

	target := strings.TrimSpace(args[0])
	if kind == domain.SourceKindWebPage {
		return domain.Source{Kind: kind, URL: target}, nil
	}

	return domain.Source{Kind: kind, Path: target}, nil
}

func kindNames() []string {
	kinds := domain.SourceKinds()
	names := make([]string, 0, len(kinds))

	for _, kind := range kinds {
		names = append(names, string(kind))
	}

	return names
}

func withProgress(ctx context.Context, w io.Writer, quiet bool, description string, fn func() error) error {
	if quiet {
		return fn()
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
	)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		t := time.NewTicker(spinnerInterval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = bar.Add(1)
			}
		}
	}()

	err := fn()

	cancel()
	<-done
	_ = bar.Clear()

	return err
}
