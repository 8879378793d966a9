package config

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/razanlang/razan/pkg/telemetry"
	"github.com/razanlang/razan/pkg/value"
	"github.com/rs/zerolog"
)

// FileName is the configuration file LoadConfiguration reads from the
// working directory.
const FileName = ".razan"

// space is value.IsSpace as a character class.
const space = `\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// assignmentPattern matches KEY is VALUE; after the line has been trimmed.
// The value may not contain a line terminator.
var assignmentPattern = regexp.MustCompile(
	`^(\w+)[` + space + `]+is[` + space + `]+([^\n\r\x{2028}\x{2029}]+);$`,
)

// Parser turns .razan text into a Document.
type Parser struct {
	evaluator *value.Evaluator
	logger    zerolog.Logger
	onSkip    func(SkippedLine)
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithEvaluator sets the evaluator used for assignment values.
func WithEvaluator(e *value.Evaluator) ParserOption {
	return func(p *Parser) {
		p.evaluator = e
	}
}

// WithLogger sets the logger skipped lines are reported to at debug level.
func WithLogger(logger zerolog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = telemetry.Component(logger, "parser")
	}
}

// WithSkipHook registers fn to be called for every ignored line.
func WithSkipHook(fn func(SkippedLine)) ParserOption {
	return func(p *Parser) {
		p.onSkip = fn
	}
}

// NewParser creates a parser that evaluates values against the process
// environment and logs nothing.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		evaluator: value.NewEvaluator(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads all of r and parses it. Only read errors are returned;
// malformed lines are skipped.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.parse("inline", string(data)), nil
}

// ParseString parses text held in memory.
func (p *Parser) ParseString(text string) *Document {
	return p.parse("inline", text)
}

// ParseFile reads path in one go and parses it. The read error, if any, is
// returned unchanged.
func (p *Parser) ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.parse(path, string(data)), nil
}

func (p *Parser) parse(source, text string) *Document {
	doc := newDocument(source)

	// nil means assignments go to the top level.
	var current *Section

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := trim(strings.TrimSuffix(raw, "\r"))
		doc.stats.Lines++

		if line == "" {
			p.skip(doc, lineNum, line, SkipBlank)
			continue
		}
		if strings.HasPrefix(line, "#") {
			p.skip(doc, lineNum, line, SkipComment)
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := line[1 : len(line)-1]
			section := doc.resetSection(name)
			doc.stats.Headers++
			// "[]" declares the "" section but assignments after it stay at
			// the top level.
			if name == "" {
				current = nil
			} else {
				current = section
			}
			continue
		}

		m := assignmentPattern.FindStringSubmatch(line)
		if m == nil {
			p.skip(doc, lineNum, line, SkipMalformed)
			continue
		}

		key, v := m[1], p.evaluator.Evaluate(trim(m[2]))
		doc.stats.Assignments++
		if current != nil {
			current.set(key, v)
		} else {
			doc.setTop(key, v)
		}
	}

	doc.ParsedAt = time.Now()
	return doc
}

func (p *Parser) skip(doc *Document, line int, text string, reason SkipReason) {
	doc.stats.Skipped[reason]++
	if reason == SkipMalformed {
		p.logger.Debug().
			Str("source", doc.Source).
			Int("line", line).
			Str("text", text).
			Msg("Skipping malformed line")
	}
	if p.onSkip != nil {
		p.onSkip(SkippedLine{Line: line, Text: text, Reason: reason})
	}
}

// trim removes surrounding whitespace as defined by value.IsSpace.
func trim(s string) string {
	return strings.TrimFunc(s, value.IsSpace)
}

var defaultParser = NewParser()

// LoadConfiguration reads and parses .razan from the current working
// directory. A .env file in the same directory is loaded into the process
// environment first, once per process. Errors from resolving the working
// directory or reading the file are returned unchanged.
func LoadConfiguration() (*Document, error) {
	value.PreloadDotEnv()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return defaultParser.ParseFile(filepath.Join(cwd, FileName))
}

// LoadFile parses the file at path with the default parser.
func LoadFile(path string) (*Document, error) {
	value.PreloadDotEnv()
	return defaultParser.ParseFile(path)
}
