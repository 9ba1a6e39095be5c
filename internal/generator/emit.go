// SPDX-License-Identifier: MPL-2.0

package generator

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/invowk/resxgen/internal/buildprops"
	"github.com/invowk/resxgen/internal/diag"
	"github.com/invowk/resxgen/internal/family"
	"github.com/invowk/resxgen/internal/naming"
	"github.com/invowk/resxgen/internal/placeholder"
	"github.com/invowk/resxgen/pkg/resx"
)

const (
	resourceManagerType = "global::System.Resources.ResourceManager"
	cultureInfoType     = "global::System.Globalization.CultureInfo"
	notNullIfNotNull    = "[return: global::System.Diagnostics.CodeAnalysis.NotNullIfNotNull(\"defaultValue\")]"
)

// plan is everything the emitter needs to render one family.
type plan struct {
	family family.Family
	raw    buildprops.Resolved

	assemblyName        string
	rootNamespace       string
	projectDir          string
	defaultNamespace    *string
	defaultResourceName *string

	namespace    *string
	resourceName *string
	className    string

	// entries is nil when a member file could not be parsed.
	entries            *resx.Entries
	nullableAttributes bool

	diags []diag.Diagnostic
}

// emitter writes C# with block indentation.
type emitter struct {
	sb     strings.Builder
	indent int
}

func (e *emitter) line(format string, args ...any) {
	if format == "" {
		e.sb.WriteByte('\n')
		return
	}
	e.sb.WriteString(strings.Repeat("    ", e.indent))
	if len(args) == 0 {
		e.sb.WriteString(format)
	} else {
		fmt.Fprintf(&e.sb, format, args...)
	}
	e.sb.WriteByte('\n')
}

func (e *emitter) open(header string) {
	e.line(header)
	e.line("{")
	e.indent++
}

func (e *emitter) close() {
	e.indent--
	e.line("}")
}

// shellMembers are the identifiers the shell class declares besides its
// constructor.
var shellMembers = []string{"resourceMan", "ResourceManager", "Culture", "GetString"}

// emit renders p and returns the source text and the number of accessors.
func (w *worker) emit(p *plan) (string, int) {
	e := &emitter{}
	writeTrace(e, p, w.resolver)

	e.line("")
	e.line("#nullable enable")
	e.line("")

	if p.namespace != nil {
		e.open("namespace " + *p.namespace)
	}

	className := memberName(p.className)
	e.open("public partial class " + className)
	writeShell(e, p, className)

	accessors := 0
	if p.resourceName != nil && p.entries != nil {
		names := newMemberNames(className, w.log)
		accessors = writeAccessors(e, p.entries, w.extractor, names)
	}

	e.close()
	if p.namespace != nil {
		e.close()
	}
	return e.sb.String(), accessors
}

func writeTrace(e *emitter, p *plan, resolver *family.Resolver) {
	sorted := family.Family{Key: p.family.Key, Files: slices.Clone(p.family.Files)}
	slices.SortStableFunc(sorted.Files, func(a, b family.File) int { return strings.Compare(a.Path(), b.Path()) })
	paths := sorted.Paths()

	cultures := make([]string, 0, len(paths))
	for _, c := range resolver.Cultures(sorted) {
		if c == "" {
			c = "(neutral)"
		}
		cultures = append(cultures, c)
	}

	e.line("// <auto-generated/>")
	e.line("// Generated by resxgen. Changes to this file will be lost when it is regenerated.")
	e.line("//")
	trace := []struct{ label, value string }{
		{"key", p.family.Key},
		{"files", strings.Join(paths, ", ")},
		{"cultures", strings.Join(cultures, ", ")},
		{"RootNamespace (metadata)", deref(p.raw.RootNamespace)},
		{"ProjectDir (metadata)", deref(p.raw.ProjectDir)},
		{"Namespace / DefaultResourcesNamespace (metadata)", deref(p.raw.Namespace)},
		{"ResourceName (metadata)", deref(p.raw.ResourceName)},
		{"ClassName (metadata)", deref(p.raw.ClassName)},
		{"AssemblyName", p.assemblyName},
		{"RootNamespace (computed)", p.rootNamespace},
		{"ProjectDir (computed)", p.projectDir},
		{"defaultNamespace", deref(p.defaultNamespace)},
		{"defaultResourceName", deref(p.defaultResourceName)},
		{"Namespace", deref(p.namespace)},
		{"ResourceName", deref(p.resourceName)},
		{"ClassName", p.className},
	}
	for _, t := range trace {
		e.line("// %s: %s", t.label, traceValue(t.value))
	}
}

func writeShell(e *emitter, p *plan, className string) {
	e.line("private %s? resourceMan;", resourceManagerType)
	e.line("")
	e.line("public %s() { }", className)
	e.line("")
	e.line("/// <summary>")
	e.line("///   Returns the cached ResourceManager instance used by this class.")
	e.line("/// </summary>")
	if p.resourceName != nil {
		e.line("private %s ResourceManager => resourceMan ??= new %s(%s, typeof(%s).Assembly);",
			resourceManagerType, resourceManagerType, stringLiteral(*p.resourceName), className)
	} else {
		e.line("private %s ResourceManager => resourceMan ??= new %s(typeof(%s));",
			resourceManagerType, resourceManagerType, className)
	}
	e.line("")
	e.line("/// <summary>")
	e.line("///   Overrides the current thread's CurrentUICulture property for all")
	e.line("///   resource lookups using this strongly typed resource class.")
	e.line("/// </summary>")
	e.line("public %s? Culture { get; set; }", cultureInfoType)
	e.line("")
	e.line("/// <summary>")
	e.line("///   Looks up <paramref name=\"name\"/> and formats it with <paramref name=\"args\"/> when they are given.")
	e.line("///   <paramref name=\"defaultValue\"/> is used in place of a missing resource.")
	e.line("/// </summary>")
	if p.nullableAttributes {
		e.line(notNullIfNotNull)
	}
	e.open("public string? GetString(string name, string? defaultValue, params object?[]? args)")
	e.line("string? str = ResourceManager.GetString(name, Culture);")
	e.open("if (str == null)")
	e.open("if (defaultValue == null || args == null)")
	e.line("return defaultValue;")
	e.close()
	e.line("return string.Format(Culture, defaultValue, args);")
	e.close()
	e.line("")
	e.open("if (args != null)")
	e.line("return string.Format(Culture, str, args);")
	e.close()
	e.line("return str;")
	e.close()
}

// memberNames hands out accessor identifiers that are unique within the
// generated class. An identifier already taken gets the first free "_N"
// suffix, starting at 2.
type memberNames struct {
	used map[string]bool
	log  *slog.Logger
}

func newMemberNames(className string, log *slog.Logger) *memberNames {
	m := &memberNames{used: make(map[string]bool), log: log}
	m.used[identifierKey(className)] = true
	for _, name := range shellMembers {
		m.used[name] = true
	}
	return m
}

// claim returns the identifier for the resource named name.
func (m *memberNames) claim(name string) string {
	base := naming.Sanitize(name)
	candidate := base
	for i := 2; m.used[candidate]; i++ {
		candidate = base + "_" + strconv.Itoa(i)
	}
	m.used[candidate] = true
	if candidate != base {
		m.log.Debug("accessor renamed to avoid a clash", "resource", name, "identifier", candidate)
	}
	return naming.EscapeKeyword(candidate)
}

// identifierKey strips the verbatim prefix: "@class" and "class" name the
// same C# identifier.
func identifierKey(id string) string { return strings.TrimPrefix(id, "@") }

func writeAccessors(e *emitter, entries *resx.Entries, extractor *placeholder.Extractor, names *memberNames) int {
	n := 0
	for _, entry := range entries.Sorted() {
		if entry.Name == "" {
			continue
		}
		if entry.IsText() {
			writeTextAccessor(e, entry, extractor, names.claim(entry.Name))
			n++
			continue
		}
		if writeObjectAccessor(e, entry, names) {
			n++
		}
	}
	return n
}

func writeTextAccessor(e *emitter, entry resx.Entry, extractor *placeholder.Extractor, member string) {
	e.line("")
	paras := []string{"Looks up a localized string for \"" + entry.Name + "\"."}
	if c := entry.CommentOr(""); strings.TrimSpace(c) != "" {
		paras = append(paras, c)
	}
	if !entry.IsFileRef() {
		paras = append(paras, fmt.Sprintf("Value: \"%s\".", entry.ValueOr("")))
	}
	writeSummary(e, paras)

	name := stringLiteral(entry.Name)
	fallback := stringLiteral("<?" + entry.Name + "?>")
	arity := extractor.Extract(entry.ValueOr("")).Arity()
	if arity == 0 {
		e.line("public string? %s() => GetString(%s, %s, null);", member, name, fallback)
		return
	}
	e.line("public string? %s(%s) => GetString(%s, %s, %s);",
		member, placeholder.Params(arity), name, fallback, placeholder.Args(arity))
}

func writeObjectAccessor(e *emitter, entry resx.Entry, names *memberNames) bool {
	clr, ok := entry.TypeName()
	if !ok {
		return false
	}
	typ, ok := qualifiedTypeName(clr)
	if !ok {
		return false
	}

	e.line("")
	paras := []string{"Looks up a localized resource of type \"" + clr + "\" for \"" + entry.Name + "\"."}
	if c := entry.CommentOr(""); strings.TrimSpace(c) != "" {
		paras = append(paras, c)
	}
	writeSummary(e, paras)
	e.line("public %s? %s => (%s?)ResourceManager.GetObject(%s, Culture);",
		typ, names.claim(entry.Name), typ, stringLiteral(entry.Name))
	return true
}

func writeSummary(e *emitter, paras []string) {
	e.line("/// <summary>")
	for _, para := range paras {
		lines := docLines(para)
		if len(lines) == 1 {
			e.line("///   <para>%s</para>", lines[0])
			continue
		}
		e.line("///   <para>")
		for _, l := range lines {
			if l == "" {
				e.line("///")
				continue
			}
			e.line("///   %s", l)
		}
		e.line("///   </para>")
	}
	e.line("/// </summary>")
}
