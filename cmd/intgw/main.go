package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/picurit/intgw/internal/config"
	"github.com/picurit/intgw/internal/exit"
	"github.com/picurit/intgw/internal/record"
	"github.com/picurit/intgw/internal/webhook"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result := execute(ctx, cfg)
	result.Print()
	return result.ExitCode
}

func execute(ctx context.Context, cfg *config.Config) *exit.Result {
	content, name, err := loadDocument(cfg.File)
	if err != nil {
		return exit.Errorf("reading document: %v\n", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rec := record.New(name, map[string]any{cfg.Field: content}, log)

	switch cfg.Op {
	case config.OpResolve:
		return resolve(rec, cfg)
	case config.OpUpdate:
		return update(rec, cfg)
	case config.OpDelete:
		return remove(rec, cfg)
	case config.OpSend:
		return send(ctx, rec, cfg, log)
	}
	return exit.Usagef("unknown operation %q\n", cfg.Op)
}

func loadDocument(file string) (content, name string, err error) {
	if file == "" || file == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(raw), "stdin", nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return "", "", err
	}
	return string(raw), filepath.Base(file), nil
}

func resolve(rec *record.Record, cfg *config.Config) *exit.Result {
	def, err := cfg.ParseDefault()
	if err != nil {
		return exit.Usagef("%v\n", err)
	}

	out, err := rec.ResolvePath(cfg.Path, def, cfg.Field)
	if err != nil {
		return exit.Errorf("%v\n", err)
	}

	rendered, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return exit.Errorf("encoding result: %v\n", err)
	}
	return exit.Success(string(rendered) + "\n")
}

func update(rec *record.Record, cfg *config.Config) *exit.Result {
	value, err := cfg.ParseValue()
	if err != nil {
		return exit.Usagef("%v\n", err)
	}

	if _, err := rec.UpdatePath(cfg.Path, value, cfg.Field); err != nil {
		return exit.Errorf("%v\n", err)
	}
	return writeDocument(rec, cfg)
}

func remove(rec *record.Record, cfg *config.Config) *exit.Result {
	if _, err := rec.DeletePath(cfg.Path, cfg.Field); err != nil {
		return exit.Errorf("%v\n", err)
	}
	return writeDocument(rec, cfg)
}

// writeDocument prints the canonical document, or writes it back to -file
// when -in-place is set.
func writeDocument(rec *record.Record, cfg *config.Config) *exit.Result {
	text, _ := rec.Field(cfg.Field)
	doc, _ := text.(string)

	if cfg.InPlace {
		if err := os.WriteFile(cfg.File, []byte(doc+"\n"), 0o644); err != nil {
			return exit.Errorf("writing %s: %v\n", cfg.File, err)
		}
		return exit.Success("")
	}
	return exit.Success(doc + "\n")
}

func send(ctx context.Context, rec *record.Record, cfg *config.Config, log *slog.Logger) *exit.Result {
	f, err := os.Open(cfg.Webhook)
	if err != nil {
		return exit.Errorf("reading webhook config: %v\n", err)
	}
	defer f.Close()

	hook, err := webhook.ParseConfig(f)
	if err != nil {
		return exit.Errorf("%v\n", err)
	}

	delivery, err := webhook.NewDispatcher(hook, log, cfg.Debug).Send(ctx, rec)
	if err != nil {
		return exit.Errorf("%v\n", err)
	}

	return exit.Success("delivered " + delivery.ID + "\n")
}
