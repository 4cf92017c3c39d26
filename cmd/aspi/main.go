// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command aspi sends one HTTP request described by a client profile and
// prints the decoded JSON response.
//
// Usage:
//
//	aspi -config profile.yaml [-debug] [-mode pair|result|throw] METHOD PATH [BODY]
//
// The exit status is 1 if the request fails and 2 on a usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/harshtalks/aspi"
	"github.com/harshtalks/aspi/breaker"
	"github.com/harshtalks/aspi/internal/config"
	"github.com/harshtalks/aspi/result"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, http.DefaultClient)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, doer aspi.HTTPDoer) int {
	fs := flag.NewFlagSet("aspi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "aspi.yaml", "Path to client profile")
	isDebug := fs.Bool("debug", false, "Enable debug logging")
	modeName := fs.String("mode", "pair", "Result mode: pair, result, or throw")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		fmt.Fprintln(stderr, "usage: aspi [flags] METHOD PATH [BODY]")
		fs.PrintDefaults()
		return 2
	}
	mode, ok := aspi.ParseMode(*modeName)
	if !ok {
		fmt.Fprintf(stderr, "aspi: unknown mode %q\n", *modeName)
		return 2
	}

	profile, err := config.Load(*configPath)
	if err != nil {
		slog.New(tint.NewHandler(stderr, nil)).Error("Failed to load profile", "error", err)
		return 1
	}

	slogLevel := slog.LevelInfo
	if *isDebug || profile.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	}))

	cl := newClient(profile, doer, logger)
	req := aspi.JSON[any](cl, strings.ToUpper(fs.Arg(0)), fs.Arg(1)).Retry(profile.RetryPolicy())
	if profile.BearerToken != "" {
		req.Bearer(profile.BearerToken)
	}
	if fs.NArg() == 3 {
		req.Body(fs.Arg(2)).Header("Content-Type", "application/json")
	}

	data, err := send(ctx, req, mode)
	if err != nil {
		logger.Error("Request failed", "kind", aspi.Kind(err), "tag", aspi.Tag(err), "error", err)
		printJSON(stdout, failureDetail(err))
		return 1
	}
	printJSON(stdout, data)
	return 0
}

func newClient(p *config.Profile, doer aspi.HTTPDoer, logger *slog.Logger) *aspi.Client {
	header := make(http.Header, len(p.Headers))
	for k, v := range p.Headers {
		header.Set(k, v)
	}
	if p.Breaker.Enabled {
		st := p.BreakerSettings()
		st.Logger = logger
		doer = breaker.New(doer, st)
	}
	handlers := &aspi.HandlerGroup{}
	handlers.PushBack(aspi.BeforeAttempt, aspi.RequestID)
	return &aspi.Client{
		BaseURL:  p.BaseURL,
		Header:   header,
		HTTPDoer: doer,
		Handlers: handlers,
		Logger:   logger,
	}
}

// send executes req in mode and unpacks the projected outcome.
func send(ctx context.Context, req *aspi.Request[any], mode aspi.Mode) (data any, err error) {
	switch mode {
	case aspi.ResultMode:
		out := req.WithResult().Execute(ctx).(result.Result[*aspi.Success[any]])
		return result.Match(out,
			func(s *aspi.Success[any]) any { return s.Data },
			func(error) any { return nil },
		), out.Error()
	case aspi.ThrowMode:
		defer func() {
			if r := recover(); r != nil {
				e, ok := r.(error)
				if !ok {
					panic(r)
				}
				err = e
			}
		}()
		return req.Throwable().Execute(ctx).(*aspi.Success[any]).Data, nil
	default:
		pair := req.WithPair().Execute(ctx).(aspi.Pair[any])
		if pair.Err != nil {
			return nil, pair.Err
		}
		return pair.Data.Data, nil
	}
}

func failureDetail(err error) any {
	var pe *aspi.ProtocolError
	var ce *aspi.CustomError
	var de *aspi.DecodeError
	switch {
	case errors.As(err, &ce):
		return map[string]any{"tag": ce.Tag, "data": ce.Data}
	case errors.As(err, &de):
		return map[string]any{"tag": de.Tag, "issues": de.Issues, "error": de.Error()}
	case errors.As(err, &pe):
		return map[string]any{"status": pe.StatusCode(), "label": pe.Status(), "body": pe.Body()}
	}
	return map[string]any{"error": err.Error()}
}

func printJSON(w io.Writer, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%v\n", v)
		return
	}
	fmt.Fprintf(w, "%s\n", b)
}
