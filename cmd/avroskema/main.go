package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	avroskema "github.com/f-gate/avroskema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "canonical":
		canonicalCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	case "decode":
		decodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "avroskema CLI\n\nUsage:\n  avroskema canonical -schema schema.avsc [-yaml]\n  avroskema encode -schema schema.avsc -in records.jsonl [-o out.bin]\n  avroskema decode -schema schema.avsc -in records.bin\n\nNotes:\n  - encode reads one Avro JSON record per line and writes a single binary batch.\n  - decode prints one Avro JSON record per line.")
}

func canonicalCmd(args []string) {
	fs := flag.NewFlagSet("canonical", flag.ExitOnError)
	var schemaPath string
	var yamlIn bool
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file")
	fs.BoolVar(&yamlIn, "yaml", false, "read the schema as YAML")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := newLogf(verbose)

	data, err := os.ReadFile(schemaPath)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	logf("canonical: schema=%s bytes=%d yaml=%t", schemaPath, len(data), yamlIn)
	if err := writeCanonical(os.Stdout, data, yamlIn); err != nil {
		fatalf("canonical: %v", err)
	}
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var schemaPath, in, out string
	var strip, verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file")
	fs.StringVar(&in, "in", "", "newline-delimited Avro JSON records")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	fs.BoolVar(&strip, "strip", false, "drop record keys that are not schema fields")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" || in == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := newLogf(verbose)

	s := loadSchema(schemaPath)
	f, err := os.Open(in)
	if err != nil {
		fatalf("opening input: %v", err)
	}
	defer f.Close()

	unknown := avroskema.UnknownStrict
	if strip {
		unknown = avroskema.UnknownStrip
	}
	w := avroskema.NewWriter(s, avroskema.EncodeOpt{Unknown: unknown})
	n, err := encodeRecords(w, f, unknown)
	if err != nil {
		fatalf("encode: %v", err)
	}
	logf("encode: records=%d bytes=%d", n, w.Len())

	if out == "" {
		if _, err := w.WriteTo(os.Stdout); err != nil {
			fatalf("encode: %v", err)
		}
		return
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	of, err := os.Create(out)
	if err != nil {
		fatalf("creating output: %v", err)
	}
	if _, err := w.WriteTo(of); err != nil {
		_ = of.Close()
		fatalf("encode: %v", err)
	}
	if err := of.Close(); err != nil {
		fatalf("closing output: %v", err)
	}
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var schemaPath, in string
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file")
	fs.StringVar(&in, "in", "", "binary records written by encode")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" || in == "" {
		fs.Usage()
		os.Exit(2)
	}
	logf := newLogf(verbose)

	s := loadSchema(schemaPath)
	data, err := os.ReadFile(in)
	if err != nil {
		fatalf("reading input: %v", err)
	}
	n, err := decodeRecords(os.Stdout, s, data)
	if err != nil {
		fatalf("decode: %v", err)
	}
	logf("decode: records=%d bytes=%d", n, len(data))
}

// writeCanonical prints the canonical text, the strict canonical form and
// both fingerprints, one per line.
func writeCanonical(dst io.Writer, data []byte, yamlIn bool) error {
	var (
		cs  *avroskema.CanonicalSchema
		err error
	)
	if yamlIn {
		cs, err = avroskema.CanonicalizeYAML(data)
	} else {
		cs, err = avroskema.Canonicalize(string(data))
	}
	if err != nil {
		return err
	}
	s, err := avroskema.Translate(cs.Bytes)
	if err != nil {
		return err
	}
	mh, err := avroskema.FingerprintSHA256(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(dst, "%s\n%s\nrabin: %016x\nsha256: %s\n", cs.Text, s.ParsingCanonicalForm(), cs.Rabin, mh.HexString())
	return err
}

// encodeRecords appends one record per non-empty input line. unknown decides
// whether members without a schema field are dropped or rejected.
func encodeRecords(w *avroskema.Writer, r io.Reader, unknown avroskema.UnknownPolicy) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), avroskema.DefaultMaxBytes)
	n := 0
	for line := 1; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		v, err := avroskema.ValueFromJSON(w.Schema(), b, avroskema.DecodeOpt{Unknown: unknown})
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := w.AppendValue(v); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("reading records: %w", err)
	}
	return n, nil
}

// decodeRecords prints every record in data as one JSON line.
func decodeRecords(dst io.Writer, s avroskema.Schema, data []byte) (int, error) {
	rd := avroskema.NewReader(data, s)
	n := 0
	for {
		m, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("record %d at offset %d: %w", n+1, rd.Offset(), err)
		}
		b, err := avroskema.ValueToJSON(s, m)
		if err != nil {
			return n, err
		}
		if _, err := fmt.Fprintf(dst, "%s\n", b); err != nil {
			return n, err
		}
		n++
	}
}

func loadSchema(path string) avroskema.Schema {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	s, err := avroskema.Parse(string(data))
	if err != nil {
		fatalf("schema: %v", err)
	}
	return s
}

func newLogf(verbose bool) func(format string, a ...any) {
	return func(format string, a ...any) {
		if verbose {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
