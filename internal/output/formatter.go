// Package output renders command results as text tables, markdown, JSON,
// TOON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
	"gopkg.in/yaml.v3"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
	FormatYAML     Format = "yaml"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the value serialized by the structured formats.
	RenderData() any
}

// Formatter writes results in one format to stdout or a file.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter. A non-empty output path is created and
// written without color.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	f := &Formatter{format: format, writer: os.Stdout, colored: colored}
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		f.writer = file
		f.file = file
		f.colored = false
	}
	return f, nil
}

// NewWriterFormatter creates a formatter over an arbitrary writer.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, writer: w, colored: colored}
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Writer returns the underlying writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.format
}

// Colored returns whether colored output is enabled.
func (f *Formatter) Colored() bool {
	return f.colored
}

// Output writes data in the configured format. Values that are not
// Renderable are written as JSON for text and markdown.
func (f *Formatter) Output(data any) error {
	r, renderable := data.(Renderable)
	if renderable {
		data = r.RenderData()
	}

	switch f.format {
	case FormatJSON:
		return f.writeJSON(data)
	case FormatTOON:
		return f.writeTOON(data)
	case FormatYAML:
		return f.writeYAML(data)
	case FormatMarkdown:
		if renderable {
			return r.RenderMarkdown(f.writer)
		}
		fmt.Fprintln(f.writer, "```json")
		if err := f.writeJSON(data); err != nil {
			return err
		}
		fmt.Fprintln(f.writer, "```")
		return nil
	default:
		if renderable {
			return r.RenderText(f.writer, f.colored)
		}
		return f.writeJSON(data)
	}
}

func (f *Formatter) writeJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) writeTOON(data any) error {
	plain, err := normalize(data)
	if err != nil {
		return err
	}
	out, err := toon.Marshal(plain, toon.WithIndent(2))
	if err != nil {
		return fmt.Errorf("encode toon: %w", err)
	}
	if _, err := f.writer.Write(out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.writer)
	return err
}

func (f *Formatter) writeYAML(data any) error {
	plain, err := normalize(data)
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(plain); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return encoder.Close()
}

// normalize round-trips data through JSON so every format sees the same
// field names, taken from the json struct tags.
func normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// Message helpers for colored output

func (f *Formatter) Success(format string, args ...any) {
	f.message(color.New(color.FgGreen), "", format, args...)
}

func (f *Formatter) Warning(format string, args ...any) {
	f.message(color.New(color.FgYellow), "WARNING: ", format, args...)
}

func (f *Formatter) Info(format string, args ...any) {
	f.message(color.New(color.FgCyan), "", format, args...)
}

func (f *Formatter) message(c *color.Color, plainPrefix, format string, args ...any) {
	if f.colored {
		c.Fprintf(f.writer, format+"\n", args...)
		return
	}
	fmt.Fprintf(f.writer, plainPrefix+format+"\n", args...)
}
