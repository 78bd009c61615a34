// Copyright 2025 Kadir Pekel
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

// Command vigil renders agent prompt templates against stored job context.
//
// Usage:
//
//	vigil render prompt.tmpl --alias weather
//	echo 'Today is {% date %}' | vigil render -
//	vigil history --alias weather --limit 5
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/vigil/pkg/config"
	"github.com/kadirpekel/vigil/pkg/logger"
	"github.com/kadirpekel/vigil/pkg/store"
	"github.com/kadirpekel/vigil/pkg/template"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Render  RenderCmd  `cmd:"" help:"Render a template file (or - for stdin)."`
	History HistoryCmd `cmd:"" help:"List stored run results for a job."`

	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("vigil version %s\n", version)
	return nil
}

// RenderCmd renders a template with the configured dictionary, secrets, and
// a job's stored memories.
type RenderCmd struct {
	Template string `arg:"" help:"Template file path, or - for stdin."`

	Alias       string `help:"Job alias whose memories feed the context."`
	Result      string `help:"Current job result for {% result %}."`
	Message     string `help:"Inbound message for {% message %}."`
	Sender      string `help:"Sender identity for {% sender %}."`
	MemoryLimit int    `name:"memory-limit" help:"Max memories loaded into the context." default:"100"`
}

func (c *RenderCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	text, err := readTemplate(c.Template)
	if err != nil {
		return err
	}

	rc := template.NewContext(cfg.Dictionary)
	rc.Secrets = cfg.Secrets
	rc.Result = c.Result
	rc.Message = c.Message
	rc.Sender = c.Sender

	if c.Alias != "" {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		rc.Memories, err = st.Memories(c.Alias, c.MemoryLimit)
		if err != nil {
			return err
		}
	}

	out, err := template.Render(ctx, text, rc)
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}

// HistoryCmd lists stored run results for a job alias, newest first.
type HistoryCmd struct {
	Alias string `help:"Job alias." required:""`
	Limit int    `help:"Max entries to show." default:"10"`
}

func (c *HistoryCmd) Run(cli *CLI) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Memories(c.Alias, c.Limit)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.DateTime, e.Result)
	}
	return nil
}

func openStore(cfg *config.AppConfig) (*store.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %w", err)
	}
	return store.Open(filepath.Join(cfg.DataDir, "vigil.db"))
}

func readTemplate(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read template: %w", err)
	}
	return string(data), nil
}

func main() {
	_ = config.LoadEnvFiles()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("vigil"),
		kong.Description("vigil - agent prompt templating over stored job context"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Init(level, os.Stderr, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
