// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fillmore-labs.com/rxguard/analyzer"
	"fillmore-labs.com/rxguard/internal/report"
)

// Exit codes.
const (
	exitOK       = 0
	exitFindings = 1
	exitError    = 2
)

// configEnv names the environment variable holding the default configuration file.
const configEnv = "RXGUARD_CONFIG"

// errFindings signals findings at error severity; it is not printed.
var errFindings = errors.New("findings at error severity")

type command struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	config   string
	format   report.Format
	logLevel string
	list     bool
	flags    *analyzer.Flags
}

// execute runs the command line and returns the exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &command{stdin: stdin, stdout: stdout, stderr: stderr, format: report.Text, logLevel: "warn"}

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	switch err := root.ExecuteContext(ctx); {
	case err == nil:
		return exitOK

	case errors.Is(err, errFindings):
		return exitFindings

	default:
		fmt.Fprintf(stderr, "%s: %v\n", analyzer.Name, err)
		return exitError
	}
}

func (c *command) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           analyzer.Name + " [flags] [document.json ...]",
		Short:         "Detect reactive-programming anti-patterns in parsed components",
		Long:          analyzer.Doc + ".\n\nDocuments are read from standard input when no file is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}

	fs := cmd.Flags()
	fs.StringVarP(&c.config, "config", "c", "", "YAML configuration file (default $"+configEnv+")")
	fs.VarP(&c.format, "format", "f", "output format: json, jsonl or text")
	fs.StringVar(&c.logLevel, "log-level", c.logLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&c.list, "list", false, "list the detectors and exit")

	c.flags = analyzer.RegisterFlags(fs)

	return cmd
}

func (c *command) run(cmd *cobra.Command, args []string) error {
	if c.list {
		return c.listDetectors()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	_ = godotenv.Load() // a missing .env file is fine

	opts := analyzer.Options{analyzer.WithLogger(logger)}

	configFile := c.config
	if configFile == "" {
		configFile = os.Getenv(configEnv)
	}

	if configFile != "" {
		opts = append(opts, analyzer.WithConfigFile(configFile))
	}

	flagOpts, err := c.flags.Options()
	if err != nil {
		return err
	}

	opts = append(opts, flagOpts...)

	logger.LogAttrs(cmd.Context(), slog.LevelDebug, "Configured", opts.LogAttr())

	a := analyzer.New(opts)
	if err := a.Validate(); err != nil {
		return err
	}

	doc, err := c.read(args)
	if err != nil {
		return err
	}

	findings, runErr := a.Run(cmd.Context(), doc)

	if err := report.Write(c.stdout, c.format, findings); err != nil {
		return err
	}

	switch {
	case runErr != nil:
		return runErr

	case analyzer.Failed(findings):
		return errFindings

	default:
		return nil
	}
}

// read reads the documents named by args, or standard input.
func (c *command) read(args []string) (*analyzer.Document, error) {
	if len(args) == 0 || len(args) == 1 && args[0] == "-" {
		return analyzer.Decode(c.stdin)
	}

	return analyzer.ReadFiles(args...)
}

func (c *command) listDetectors() error {
	for _, d := range analyzer.Detectors() {
		threshold := "-"
		if d.HasThreshold {
			threshold = fmt.Sprintf("%g", d.Threshold)
		}

		if _, err := fmt.Fprintf(c.stdout, "%-30s %-8s %-4s %s\n", d.Name, d.Severity, threshold, d.Doc); err != nil {
			return err
		}
	}

	return nil
}
