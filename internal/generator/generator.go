// SPDX-License-Identifier: MPL-2.0

package generator

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/invowk/resxgen/internal/buildprops"
	"github.com/invowk/resxgen/internal/diag"
	"github.com/invowk/resxgen/internal/family"
	"github.com/invowk/resxgen/internal/naming"
	"github.com/invowk/resxgen/internal/pattern"
	"github.com/invowk/resxgen/internal/placeholder"
	"github.com/invowk/resxgen/pkg/resx"
)

// UnitSuffix is appended to a family's base name to name its generated unit.
const UnitSuffix = ".resx.g.cs"

type (
	// Request describes one generation pass.
	Request struct {
		// Files are grouped into families when Families is empty.
		Files []family.File
		// Families, when set, are used as given and Files is ignored.
		Families []family.Family
		// BaseDir resolves relative family keys and project directories.
		BaseDir string
		// AssemblyName is the fallback for the root namespace and project dir.
		AssemblyName string
		// Provider supplies per-file and global properties. Nil means none.
		Provider buildprops.Provider
		// Workers bounds the number of families generated concurrently.
		// Zero or negative means runtime.NumCPU().
		Workers int
		// MatchTimeout bounds every pattern scan. Zero means pattern.DefaultTimeout.
		MatchTimeout time.Duration
		// NullableAttributes adds a NotNullIfNotNull return attribute to GetString.
		NullableAttributes bool
	}

	// Unit is the generated source for one family.
	Unit struct {
		// FamilyKey is the key of the family the unit was generated for.
		FamilyKey string
		// Name is the unit file name, "<base>.resx.g.cs".
		Name string
		// Dir is the directory containing the family's files.
		Dir string
		// Namespace is the resolved namespace, or "" when unresolved.
		Namespace string
		// ClassName is the generated class name.
		ClassName string
		// Accessors is the number of accessor members emitted.
		Accessors int
		// Text is the C# source.
		Text string
	}

	// Result is the outcome of a pass.
	Result struct {
		// Units holds one unit per family, in family order.
		Units []Unit
		// Diagnostics are ordered by family, then by the order they were raised.
		Diagnostics []diag.Diagnostic
	}

	// Generator runs generation passes. The zero value is ready to use.
	Generator struct {
		// Logger receives debug output. Nil means slog.Default().
		Logger *slog.Logger
	}

	familyResult struct {
		unit  Unit
		diags []diag.Diagnostic
	}
)

// Run executes a pass. It returns an error only when ctx is cancelled; every
// per-family problem is reported as a diagnostic.
func (g *Generator) Run(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	timeout := req.MatchTimeout
	if timeout <= 0 {
		timeout = pattern.DefaultTimeout
	}
	resolver := family.NewResolver(timeout)
	families := req.Families
	if len(families) == 0 {
		families = resolver.Group(req.Files)
	}
	provider := req.Provider
	if provider == nil {
		provider = buildprops.StaticProvider{}
	}
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	w := &worker{
		req:       req,
		provider:  provider,
		resolver:  resolver,
		extractor: placeholder.NewExtractor(timeout),
		log:       g.logger(),
	}

	results := make([]familyResult, len(families))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, fam := range families {
		eg.Go(func() error {
			r, err := w.generate(egCtx, fam)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	out := Result{Units: make([]Unit, 0, len(results))}
	for _, r := range results {
		out.Units = append(out.Units, r.unit)
		out.Diagnostics = append(out.Diagnostics, r.diags...)
	}
	return out, nil
}

func (g *Generator) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// worker holds the read-only state shared by every family of a pass.
type worker struct {
	req       Request
	provider  buildprops.Provider
	resolver  *family.Resolver
	extractor *placeholder.Extractor
	log       *slog.Logger
}

func (w *worker) generate(ctx context.Context, fam family.Family) (familyResult, error) {
	w.log.Debug("generating family", "key", fam.Key, "files", len(fam.Files))

	p := w.resolve(fam)
	diags := p.diags

	entries, err := resx.Parse(ctx, sources(fam.Files))
	if err != nil {
		var perr *resx.ParseError
		if !errors.As(err, &perr) {
			return familyResult{}, err
		}
		w.log.Debug("resource file rejected", "path", perr.Path, "error", perr.Err)
		diags = append(diags, diag.InvalidResourceFile.New(perr.Path, perr.Path).WithCause(perr.Err))
		entries = nil
	}
	p.entries = entries

	text, accessors := w.emit(p)
	unit := Unit{
		FamilyKey: fam.Key,
		Name:      fam.BaseName() + UnitSuffix,
		Dir:       fam.Dir(),
		Namespace: deref(p.namespace),
		ClassName: memberName(p.className),
		Accessors: accessors,
		Text:      text,
	}
	w.log.Debug("generated family", "key", fam.Key, "unit", unit.Name, "accessors", accessors, "diagnostics", len(diags))
	return familyResult{unit: unit, diags: diags}, nil
}

// resolve computes every naming decision for fam.
func (w *worker) resolve(fam family.Family) *plan {
	paths := fam.Paths()
	raw, diags := buildprops.Resolve(paths, w.provider)

	p := &plan{
		family:             fam,
		raw:                raw,
		assemblyName:       w.req.AssemblyName,
		rootNamespace:      valueOr(raw.RootNamespace, w.req.AssemblyName),
		projectDir:         valueOr(raw.ProjectDir, w.req.AssemblyName),
		nullableAttributes: w.req.NullableAttributes,
	}

	if ns, ok := naming.ComputeNamespace(p.rootNamespace, p.projectDir, fam.Key, w.req.BaseDir); ok {
		p.defaultNamespace = &ns
	}
	if rn, ok := naming.ComputeResourceName(p.rootNamespace, p.projectDir, fam.Key, w.req.BaseDir); ok {
		p.defaultResourceName = &rn
	}

	p.namespace = firstOf(raw.Namespace, p.defaultNamespace)
	p.resourceName = firstOf(raw.ResourceName, p.defaultResourceName)
	p.className = valueOr(raw.ClassName, naming.DefaultClassName(fam.Key))

	first := ""
	if len(paths) > 0 {
		first = paths[0]
	}
	if p.namespace == nil {
		diags = append(diags, diag.NamespaceUnresolved.New(first, first))
	}
	if p.resourceName == nil {
		diags = append(diags, diag.ResourceNameUnresolved.New(first, first))
	}
	p.diags = diags
	return p
}

func sources(files []family.File) []resx.Source {
	out := make([]resx.Source, len(files))
	for i, f := range files {
		out[i] = f
	}
	return out
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func deref(v *string) string { return valueOr(v, "") }

func firstOf(vs ...*string) *string {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}
