// Package compiler drives translation for the command line and the HTTP
// service: it translates root schemas, publishes lifecycle events and
// assembles the results into one SDL document.
package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/hanpama/jsonschema2sdl/internal/config"
	"github.com/hanpama/jsonschema2sdl/internal/document"
	eventbus "github.com/hanpama/jsonschema2sdl/internal/eventbus"
	events "github.com/hanpama/jsonschema2sdl/internal/events"
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/translate"
)

// Unit is one root schema to translate.
type Unit struct {
	Name      string
	Schema    *jsonschema.Node
	Direction translate.Direction
	Resolver  translate.Resolver
}

// Document is an assembled translation of one or more units.
type Document struct {
	Results     []*translate.Result
	Definitions []string
	SDL         string
}

// Translate translates a single unit.
func Translate(ctx context.Context, u Unit) (*translate.Result, error) {
	start := time.Now()
	eventbus.Publish(ctx, events.TranslateStart{RootName: u.Name, Direction: u.Direction.String()})

	res, err := translate.Translate(u.Name, u.Schema,
		translate.WithDirection(u.Direction),
		translate.WithResolver(u.Resolver))

	fin := events.TranslateFinish{
		RootName:  u.Name,
		Direction: u.Direction.String(),
		Err:       err,
		Duration:  time.Since(start),
	}
	if res != nil {
		fin.TypeName = res.TypeName
		fin.Definitions = len(res.TypeDefinitions)
	}
	eventbus.Publish(ctx, fin)
	return res, err
}

// Assemble translates every unit in order and joins their definitions. Name
// collisions between different declarations fail the assembly, and the
// document must then pass check.
func Assemble(ctx context.Context, units []Unit, check document.Check) (*Document, error) {
	start := time.Now()
	doc, err := assemble(ctx, units, check)
	fin := events.CompileFinish{Roots: len(units), Err: err, Duration: time.Since(start)}
	if doc != nil {
		fin.Definitions = len(doc.Definitions)
	}
	eventbus.Publish(ctx, fin)
	return doc, err
}

func assemble(ctx context.Context, units []Unit, check document.Check) (*Document, error) {
	b := document.NewBuilder()
	doc := &Document{}
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := Translate(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("root %s: %w", u.Name, err)
		}
		b.Add(res)
		doc.Results = append(doc.Results, res)
	}
	if err := b.Check(); err != nil {
		return nil, err
	}
	doc.Definitions = b.Definitions()
	doc.SDL = b.Render()
	if err := document.Verify(check, "schema.graphql", doc.SDL); err != nil {
		return nil, err
	}
	return doc, nil
}

// Units loads the schemas named by a project file.
func Units(cfg *config.Config) ([]Unit, error) {
	units := make([]Unit, 0, len(cfg.Roots))
	for _, r := range cfg.Roots {
		node, err := jsonschema.LoadFile(cfg.SchemaPath(r))
		if err != nil {
			return nil, fmt.Errorf("root %s: %w", r.Name, err)
		}
		d := r.DirectionOf()
		units = append(units, Unit{
			Name:      r.Name,
			Schema:    node,
			Direction: d,
			Resolver:  naming.Resolver(cfg.RefSuffix.For(d)),
		})
	}
	return units, nil
}

// Compile loads and assembles a whole project.
func Compile(ctx context.Context, cfg *config.Config) (*Document, error) {
	units, err := Units(cfg)
	if err != nil {
		return nil, err
	}
	return Assemble(ctx, units, cfg.CheckLevel())
}
