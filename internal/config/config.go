// Package config parses the intgw command line.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/picurit/intgw/internal/exit"
	"github.com/picurit/intgw/internal/record"
)

// Operation is the requested subcommand.
type Operation string

const (
	OpResolve Operation = "resolve"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
	OpSend    Operation = "send"
)

var (
	ErrNoOperation      = errors.New("no operation specified")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrNoPath           = errors.New("operation requires a path expression")
	ErrNoValue          = errors.New("update requires a value")
	ErrNoWebhook        = errors.New("send requires -webhook")
)

const usageText = `usage: intgw [flags] <operation> [path] [value]

operations:
  resolve <path>          print the value(s) the path resolves to
  update  <path> <value>  set the path to the JSON value and print the document
  delete  <path>          remove the path and print the document
  send                    deliver the configured webhook for the document

flags:
`

// Config is the parsed command line.
type Config struct {
	File    string // JSON document file; empty or "-" reads stdin
	Field   string // field name used in logs and errors
	Default string // JSON literal returned when resolve finds nothing
	InPlace bool   // write mutations back to File
	Webhook string // webhook YAML document for send
	Debug   bool

	Op    Operation
	Path  string
	Value string
}

// Parse reads flags and positional arguments from args (including the
// program name). It returns a usage exit result on any caller error.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usage("no arguments provided\n")
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &Config{}
	fs.StringVar(&cfg.File, "file", "", "JSON document file (default: stdin)")
	fs.StringVar(&cfg.Field, "field", record.DefaultPayloadField, "field name reported in logs and errors")
	fs.StringVar(&cfg.Default, "default", "", "JSON literal returned when resolve finds nothing")
	fs.BoolVar(&cfg.InPlace, "in-place", false, "write the mutated document back to -file")
	fs.StringVar(&cfg.Webhook, "webhook", "", "webhook YAML document for send")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, usage(fs)
		}
		return nil, exit.Usagef("%v\n", err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, exit.Usagef("%v\n\n%s", ErrNoOperation, usageMessage(fs))
	}

	cfg.Op = Operation(rest[0])
	switch cfg.Op {
	case OpResolve, OpDelete:
		if len(rest) < 2 {
			return nil, exit.Usagef("%v\n", ErrNoPath)
		}
		cfg.Path = rest[1]
	case OpUpdate:
		if len(rest) < 2 {
			return nil, exit.Usagef("%v\n", ErrNoPath)
		}
		if len(rest) < 3 {
			return nil, exit.Usagef("%v\n", ErrNoValue)
		}
		cfg.Path = rest[1]
		cfg.Value = rest[2]
	case OpSend:
		if cfg.Webhook == "" {
			return nil, exit.Usagef("%v\n", ErrNoWebhook)
		}
	default:
		return nil, exit.Usagef("%v: %q\n", ErrUnknownOperation, rest[0])
	}

	if cfg.InPlace && (cfg.File == "" || cfg.File == "-") {
		return nil, exit.Usage("-in-place requires -file\n")
	}

	return cfg, nil
}

func usage(fs *flag.FlagSet) *exit.Result {
	r := exit.Usage(usageMessage(fs))
	r.ExitCode = exit.CodeSuccess
	return r
}

func usageMessage(fs *flag.FlagSet) string {
	var b strings.Builder
	b.WriteString(usageText)
	fs.SetOutput(&b)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	return b.String()
}

// ParseDefault decodes the -default literal, treating an empty flag as nil.
func (c *Config) ParseDefault() (any, error) {
	if strings.TrimSpace(c.Default) == "" {
		return nil, nil
	}
	return decodeLiteral(c.Default)
}

// ParseValue decodes the update value argument as a JSON literal.
func (c *Config) ParseValue() (any, error) {
	return decodeLiteral(c.Value)
}

// decodeLiteral parses a JSON literal keeping numbers as json.Number so
// their text form survives the round trip into the document.
func decodeLiteral(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON literal %q: %v", text, err)
	}
	return v, nil
}
