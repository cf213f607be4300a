package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"logshift/internal/cli"
	"logshift/internal/config"
	"logshift/internal/domain"
	"logshift/internal/netx"
	"logshift/internal/util"
)

var (
	newLogger    = func() loggerAPI { return cli.Logger{} }
	newNetClient = func() *netx.Client {
		return netx.NewClient(60*time.Second, netx.RetryOptions{Retries: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: 3 * time.Second})
	}
	loadConfigFn = config.Load
	exitFn       = cli.Exit
)

type loggerAPI interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// inputOpener resolves an input designator (path, URL, or empty for stdin)
// into a line stream.
type inputOpener func(ctx context.Context, input string) (io.ReadCloser, error)

// maxLineSize bounds a single log line; anything longer is an input defect.
const maxLineSize = 4 * 1024 * 1024

func execute(args []string, logger loggerAPI, cfgLoader func(path string) (config.Config, error), open inputOpener, out io.Writer) int {
	opts := cli.ParseArgs(args)

	cfg := config.Default()
	if opts.ConfigPath != "" {
		resolvedCfg, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			logger.Error(err.Error())
			return 1
		}
		cfg, err = cfgLoader(resolvedCfg)
		if err != nil {
			logger.Error(err.Error())
			return 1
		}
	}

	// Flags override config; format flags come before config formats so the
	// most explicit specification has the highest match priority.
	formats := append(append([]string{}, opts.Formats...), cfg.Formats...)
	jobs := cfg.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}
	zone := cfg.Zone
	if opts.Zone != "" {
		zone = opts.Zone
	}
	input := cfg.Input
	if opts.Input != "" {
		input = opts.Input
	}
	if input == "-" {
		input = ""
	}

	loc, err := util.ResolveZone(zone)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	set, err := domain.BuildPatternSet(formats, config.DefaultFormats)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	rewriter := domain.NewRewriter(set, loc)

	rc, err := open(context.Background(), input)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	defer rc.Close()

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	progress := cli.NewLineProgress("processed", 1000)

	var failures int
	if jobs <= 1 {
		failures = rewriteSequential(scanner, rewriter, logger, w, progress)
	} else {
		failures = rewriteParallel(scanner, rewriter, logger, w, progress, jobs)
	}
	if err := w.Flush(); err != nil {
		logger.Error("write output: " + err.Error())
		return 1
	}
	progress.Stop()
	if err := scanner.Err(); err != nil {
		logger.Error("read input: " + err.Error())
		return 1
	}
	if failures > 0 {
		logger.Info(fmt.Sprintf("Completed. %d line(s) passed through after parse failures", failures))
	}
	return 0
}

// rewriteSequential is the reference single-threaded path: one line is fully
// read, rewritten, and emitted before the next is read.
func rewriteSequential(scanner *bufio.Scanner, rewriter *domain.Rewriter, logger loggerAPI, w *bufio.Writer, progress *cli.LineProgress) int {
	failures := 0
	for scanner.Scan() {
		line, err := rewriter.Rewrite(scanner.Text())
		if err != nil {
			failures++
			logger.Warn(err.Error())
		}
		fmt.Fprintln(w, line)
		progress.Add(1)
	}
	return failures
}

// rewriteParallel fans lines out to a worker pool. Each line's rewrite is
// pure given the shared pattern set, so the only ordering concern is output:
// results land in an indexed slice and are emitted in input order.
func rewriteParallel(scanner *bufio.Scanner, rewriter *domain.Rewriter, logger loggerAPI, w *bufio.Writer, progress *cli.LineProgress, jobs int) int {
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if jobs > len(lines) {
		jobs = len(lines)
	}
	if jobs < 1 {
		jobs = 1
	}

	type task struct {
		index int
		line  string
	}
	results := make([]string, len(lines))
	var mu sync.Mutex
	var warnings []string

	taskCh := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				line, err := rewriter.Rewrite(t.line)
				if err != nil {
					mu.Lock()
					warnings = append(warnings, err.Error())
					mu.Unlock()
				}
				results[t.index] = line
			}
		}()
	}
	for i, line := range lines {
		taskCh <- task{index: i, line: line}
	}
	close(taskCh)
	wg.Wait()

	for _, msg := range warnings {
		logger.Warn(msg)
	}
	for _, line := range results {
		fmt.Fprintln(w, line)
		progress.Add(1)
	}
	return len(warnings)
}

// openInput opens a local file, fetches an http(s) URL through the retrying
// client, or falls back to stdin.
func openInput(ctx context.Context, input string) (io.ReadCloser, error) {
	if input == "" {
		return io.NopCloser(os.Stdin), nil
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return newNetClient().Open(ctx, input)
	}
	return os.Open(input)
}

func main() {
	logger := newLogger()
	exitFn(execute(os.Args[1:], logger, loadConfigFn, openInput, os.Stdout))
}
