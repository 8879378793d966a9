package config

import (
	"context"

	"github.com/razanlang/razan/pkg/telemetry"
	"github.com/razanlang/razan/pkg/value"
	"github.com/rs/zerolog"
)

// Loader reads configuration files and reports each load to telemetry.
type Loader struct {
	parser *Parser
	tel    *telemetry.Telemetry
	logger zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithParser sets the parser used by the loader.
func WithParser(p *Parser) LoaderOption {
	return func(l *Loader) {
		l.parser = p
	}
}

// WithTelemetry reports loads to tel: one span, a duration sample and value
// counters per load. Skipped lines are logged through tel's logger.
func WithTelemetry(tel *telemetry.Telemetry) LoaderOption {
	return func(l *Loader) {
		l.tel = tel
	}
}

// NewLoader creates a loader. Without WithParser it uses a parser that
// evaluates against the process environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	if l.tel != nil {
		l.logger = telemetry.Component(l.tel.Logger, "loader")
	}
	if l.parser == nil {
		if l.tel != nil {
			l.parser = NewParser(WithLogger(l.tel.Logger))
		} else {
			l.parser = NewParser()
		}
	}
	return l
}

// Load parses the file at path. A .env file in the working directory is
// loaded once beforehand. Read errors are returned unchanged.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value.PreloadDotEnv()

	op := l.tel.Begin(ctx, telemetry.SpanLoad, telemetry.AttrSource.String(path))
	doc, err := l.parser.ParseFile(path)
	l.record(op, doc, err)
	op.End(err)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("source", path).
		Int("keys", len(doc.Keys())).
		Int("sections", len(doc.SectionNames())).
		Dur("elapsed", op.Elapsed()).
		Msg("Configuration loaded")

	return doc, nil
}

func (l *Loader) record(op *telemetry.Operation, doc *Document, err error) {
	if l.tel == nil {
		return
	}
	metrics := l.tel.Metrics
	metrics.RecordLoad(err, op.Elapsed())
	if err != nil {
		return
	}

	skipped := 0
	for reason, n := range doc.stats.Skipped {
		metrics.RecordSkippedLines(string(reason), n)
		skipped += n
	}
	for _, kind := range doc.valueKinds() {
		metrics.RecordValue(kind.String())
	}
	metrics.SetSections(len(doc.order))

	op.Set(
		telemetry.AttrKeys.Int(doc.root.Len()),
		telemetry.AttrSections.Int(len(doc.order)),
		telemetry.AttrSkipped.Int(skipped),
	)
}

// valueKinds lists the kind of every stored value, top level first.
func (d *Document) valueKinds() []value.Kind {
	var kinds []value.Kind
	for _, k := range d.root.keys {
		kinds = append(kinds, d.root.values[k].Kind())
	}
	for _, name := range d.order {
		s := d.sections[name]
		for _, k := range s.keys {
			kinds = append(kinds, s.values[k].Kind())
		}
	}
	return kinds
}
