// Command tldump decodes TL objects from files or stdin and prints them.
//
//	tldump [-hex] [-framed] [-plain] [-schema api.tl]... [-config tlwire.toml]
//	       [-format repr|json|spew] [-metrics] [file ...]
package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/tlwire/internal/config"
	"github.com/danmuck/tlwire/internal/logging"
	"github.com/danmuck/tlwire/internal/observability"
	"github.com/danmuck/tlwire/internal/protocol"
	"github.com/danmuck/tlwire/internal/protocol/frame"
	"github.com/danmuck/tlwire/internal/protocol/schema"
	"github.com/danmuck/tlwire/internal/protocol/session"
	"github.com/danmuck/tlwire/internal/protocol/tl"
	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	hexInput bool
	framed   bool
	plain    bool
	format   string
	metrics  bool
	config   string
	logLevel string
	schemas  stringList
	files    []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("tldump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.hexInput, "hex", false, "input is hex text (whitespace ignored)")
	fs.BoolVar(&opts.framed, "framed", false, "input is intermediate-framed (optional 0xeeeeeeee tag)")
	fs.BoolVar(&opts.plain, "plain", false, "payloads are unencrypted messages (auth_key_id=0)")
	fs.StringVar(&opts.format, "format", "repr", "output format: repr, json or spew")
	fs.BoolVar(&opts.metrics, "metrics", false, "print codec metrics to stderr when done")
	fs.StringVar(&opts.config, "config", "", "TOML config file")
	fs.StringVar(&opts.logLevel, "log", "", "log level (overrides config and environment)")
	fs.Var(&opts.schemas, "schema", "extra TL schema file (repeatable)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch opts.format {
	case "repr", "json", "spew":
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	opts.files = fs.Args()
	return opts, nil
}

type dumper struct {
	opts   options
	codec  *protocol.Codec
	frames frame.Limits
	out    io.Writer
	spew   *spew.ConfigState
}

func newDumper(opts options, stdout io.Writer) (*dumper, error) {
	cfg := config.Default()
	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if opts.logLevel == "" && cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
			log.Warn().Str("level", cfg.LogLevel).Msg("tldump ignoring unknown log_level")
		}
	}
	cfg.SchemaFiles = append(cfg.SchemaFiles, opts.schemas...)
	extra, err := cfg.Schemas()
	if err != nil {
		return nil, err
	}
	reg, err := protocol.BuildRegistry(append([]*schema.Schema{schema.Default()}, extra...)...)
	if err != nil {
		return nil, err
	}
	codecOpts := append(cfg.Session.CodecOptions(), protocol.WithObserver(observability.NewCodecMetrics()))
	return &dumper{
		opts:   opts,
		codec:  protocol.NewCodec(reg, codecOpts...),
		frames: cfg.Session.Frame,
		out:    stdout,
		spew:   &spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true},
	}, nil
}

func (d *dumper) input(name string, raw []byte) error {
	if d.opts.hexInput {
		clean := strings.Join(strings.Fields(string(raw)), "")
		b, err := hex.DecodeString(clean)
		if err != nil {
			return fmt.Errorf("%s: decode hex: %w", name, err)
		}
		raw = b
	}
	if !d.opts.framed {
		return d.payload(name, raw)
	}

	if len(raw) >= 4 && binary.LittleEndian.Uint32(raw) == frame.IntermediateTag {
		raw = raw[4:]
	}
	r := bytes.NewReader(raw)
	for i := 0; ; i++ {
		p, err := frame.ReadFrame(r, d.frames)
		if errors.Is(err, io.EOF) {
			return nil
		}
		var te *frame.TransportError
		if errors.As(err, &te) {
			fmt.Fprintf(d.out, "%s[%d]: transport error %d\n", name, i, te.Code)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		if err := d.payload(fmt.Sprintf("%s[%d]", name, i), p); err != nil {
			return err
		}
	}
}

func (d *dumper) payload(name string, buf []byte) error {
	if d.opts.plain {
		msgID, data, err := session.UnpackPlain(buf)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(d.out, "# %s msg_id=%#x time=%s\n", name, msgID, session.MsgIDTime(msgID).UTC().Format("2006-01-02T15:04:05.000Z"))
		buf = data
	}
	for off := 0; off < len(buf); {
		obj, n, err := d.codec.Decode(buf[off:])
		if err != nil {
			return fmt.Errorf("%s at %d: %w", name, off, err)
		}
		if err := d.print(obj); err != nil {
			return err
		}
		off += n
	}
	return nil
}

func (d *dumper) print(obj tl.Object) error {
	switch d.opts.format {
	case "json":
		b, err := tl.Dump(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(d.out, "%s\n", b)
		return err
	case "spew":
		d.spew.Fdump(d.out, obj)
		return nil
	}
	_, err := fmt.Fprintln(d.out, tl.Format(obj))
	return err
}

func writeMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "tlwire_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	logging.ConfigureRuntime()
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		lvl, err := zerolog.ParseLevel(opts.logLevel)
		if err != nil {
			return fmt.Errorf("parse -log: %w", err)
		}
		observability.InitLogger("tldump", lvl)
	}

	d, err := newDumper(opts, stdout)
	if err != nil {
		return err
	}
	if len(opts.files) == 0 {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		if err := d.input("stdin", raw); err != nil {
			return err
		}
	}
	for _, path := range opts.files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := d.input(path, raw); err != nil {
			return err
		}
	}
	if opts.metrics {
		return writeMetrics(stderr)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "tldump: %v\n", err)
		os.Exit(1)
	}
}
