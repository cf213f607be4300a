package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logshift/internal/config"
)

type fakeLogger struct {
	infos []string
	warns []string
	errs  []string
}

func (l *fakeLogger) Info(msg string)  { l.infos = append(l.infos, msg) }
func (l *fakeLogger) Warn(msg string)  { l.warns = append(l.warns, msg) }
func (l *fakeLogger) Error(msg string) { l.errs = append(l.errs, msg) }

func openerFor(text string) inputOpener {
	return func(ctx context.Context, input string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(text)), nil
	}
}

func defaultLoader(path string) (config.Config, error) {
	return config.Default(), nil
}

func TestExecuteRewritesZuluTimestamp(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	code := execute([]string{"-z", "UTC"}, logger, defaultLoader,
		openerFor("INFO 2023-06-01T12:00:00Z done\nplain line\n"), &out)
	if code != 0 {
		t.Fatalf("exit code = %d, errors: %v", code, logger.errs)
	}
	want := "INFO 2023-06-01T12:00:00+00:00 done\nplain line\n"
	if out.String() != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", out.String(), want)
	}
}

func TestExecuteUserFormatFlag(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	code := execute([]string{"-f", "%d/%m/%Y %H:%M", "-z", "UTC"}, logger, defaultLoader,
		openerFor("01/02/2023 10:30 request served\n"), &out)
	if code != 0 {
		t.Fatalf("exit code = %d, errors: %v", code, logger.errs)
	}
	want := "01/02/2023 10:30+00:00 request served\n"
	if out.String() != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", out.String(), want)
	}
}

func TestExecuteConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logshift.yaml")
	if err := os.WriteFile(path, []byte("zone: utc\nformats:\n  - \"%H:%M:%S\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	logger := &fakeLogger{}
	var out bytes.Buffer
	code := execute([]string{"-c", path}, logger, config.Load,
		openerFor("boot 07:08:09 ok\n"), &out)
	if code != 0 {
		t.Fatalf("exit code = %d, errors: %v", code, logger.errs)
	}
	want := "boot 07:08:09+00:00 ok\n"
	if out.String() != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", out.String(), want)
	}
}

func TestExecuteConfigLoadError(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	loader := func(path string) (config.Config, error) {
		return config.Config{}, errors.New("boom")
	}
	if code := execute([]string{"-c", "x.yaml"}, logger, loader, openerFor(""), &out); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(logger.errs) == 0 {
		t.Fatal("expected an error log")
	}
}

func TestExecuteBadUserFormat(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	if code := execute([]string{"-f", "%Z"}, logger, defaultLoader, openerFor(""), &out); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(logger.errs) == 0 || !strings.Contains(logger.errs[0], "%Z") {
		t.Fatalf("expected error naming the bad format, got %v", logger.errs)
	}
}

func TestExecuteUnknownZone(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	if code := execute([]string{"-z", "Nowhere/City"}, logger, defaultLoader, openerFor(""), &out); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestExecuteOpenError(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	open := func(ctx context.Context, input string) (io.ReadCloser, error) {
		return nil, errors.New("no such file")
	}
	if code := execute([]string{"missing.log"}, logger, defaultLoader, open, &out); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestExecuteParseFailurePassesThrough(t *testing.T) {
	logger := &fakeLogger{}
	var out bytes.Buffer
	line := "ts 2023-06-01T12:00:00.123+02:00 x\n"
	code := execute([]string{"-z", "UTC"}, logger, defaultLoader, openerFor(line), &out)
	if code != 0 {
		t.Fatalf("exit code = %d, errors: %v", code, logger.errs)
	}
	if out.String() != line {
		t.Fatalf("line must pass through unchanged:\n got %q\nwant %q", out.String(), line)
	}
	if len(logger.warns) != 1 {
		t.Fatalf("expected one warning, got %v", logger.warns)
	}
	if len(logger.infos) != 1 {
		t.Fatalf("expected a completion summary, got %v", logger.infos)
	}
}

func TestExecuteParallelPreservesOrder(t *testing.T) {
	var in, want strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&in, "line%02d 2023-01-01T00:00:%02dZ\n", i, i)
		fmt.Fprintf(&want, "line%02d 2023-01-01T00:00:%02d+00:00\n", i, i)
	}

	logger := &fakeLogger{}
	var out bytes.Buffer
	code := execute([]string{"-j", "4", "-z", "UTC"}, logger, defaultLoader, openerFor(in.String()), &out)
	if code != 0 {
		t.Fatalf("exit code = %d, errors: %v", code, logger.errs)
	}
	if out.String() != want.String() {
		t.Fatalf("output mismatch:\n got %q\nwant %q", out.String(), want.String())
	}
}

func TestOpenInputStdin(t *testing.T) {
	rc, err := openInput(context.Background(), "")
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	rc.Close()
}

func TestOpenInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rc, err := openInput(context.Background(), path)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "hello\n" {
		t.Fatalf("unexpected content: %q", b)
	}
}
