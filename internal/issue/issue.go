// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/invowk/resxgen/internal/diag"
)

type Id int

const (
	ResxParseFailedId Id = iota + 1
	NamespaceUnresolvedId
	ResourceNameUnresolvedId
	PropertyInconsistentId
	ProjectFileInvalidId
	ConfigLoadFailedId
	StaleOutputId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	key      string      // diagnostic ID ("RXG0001") or operational key ("stale_output")
	title    string      // one-line summary for listings
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

// Key returns the name the issue is looked up by on the command line.
func (i *Issue) Key() string {
	return i.key
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the full document, including the link section.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			sb.WriteString("\n- <" + string(link) + ">")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Render renders the issue for a terminal. stylePath is a glamour style name
// ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

const (
	resourceManagerDocs HttpLink = "https://learn.microsoft.com/dotnet/api/system.resources.resourcemanager"
	resxFormatDocs      HttpLink = "https://learn.microsoft.com/dotnet/core/extensions/work-with-resx-files-programmatically"
	msbuildPropsDocs    HttpLink = "https://learn.microsoft.com/visualstudio/msbuild/common-msbuild-project-properties"
	cueDocs             HttpLink = "https://cuelang.org/docs/"
)

var (
	render = glamour.Render

	resxParseFailedIssue = &Issue{
		id:    ResxParseFailedId,
		key:   diag.InvalidResourceFile.ID,
		title: diag.InvalidResourceFile.Title,
		mdMsg: `
# RXG0001: couldn't parse resx file

One file of a resource family is not a well-formed resx document, or it
could not be read. **All entries of the family are discarded**; the class
is still generated, but without accessors.

## Common causes
- An unclosed element or a stray ` + "`&`" + ` in a value
- A merge conflict marker left in the file
- Content after the closing ` + "`</root>`" + ` element

## Things you can try
- Open the file in an XML-aware editor and fix the reported position
- Run the generator with ` + "`--verbose`" + ` to see the underlying parser error:
~~~
$ resxgen generate --verbose
~~~`,
		docLinks: []HttpLink{resxFormatDocs},
	}

	namespaceUnresolvedIssue = &Issue{
		id:    NamespaceUnresolvedId,
		key:   diag.NamespaceUnresolved.ID,
		title: diag.NamespaceUnresolved.Title,
		mdMsg: `
# RXG0002: couldn't compute namespace

No namespace override was given and the resource file does not live under
the project directory, so no namespace can be derived from its location.
The class is emitted without a namespace declaration.

## Things you can try
- Set ` + "`ProjectDir`" + ` to a directory containing the file:
~~~
$ resxgen generate --property ProjectDir=/path/to/project
~~~
- Or give the family an explicit namespace in ` + "`resxgen.cue`" + `:
~~~cue
files: [{pattern: "Shared/**/*.resx", metadata: Namespace: "Contoso.Shared"}]
~~~`,
		docLinks: []HttpLink{msbuildPropsDocs},
	}

	resourceNameUnresolvedIssue = &Issue{
		id:    ResourceNameUnresolvedId,
		key:   diag.ResourceNameUnresolved.ID,
		title: diag.ResourceNameUnresolved.Title,
		mdMsg: `
# RXG0003: couldn't compute resource name

The manifest resource name could not be derived because the file lies
outside the project directory. The generated ` + "`ResourceManager`" + ` falls back
to the class type, which only works when the type and the embedded resource
share a name.

## Things you can try
- Set ` + "`ResourceName`" + ` explicitly for the family:
~~~
$ resxgen generate --metadata 'Shared/Strings*.resx:ResourceName=Contoso.Shared.Strings'
~~~
- Or move the file under the project directory`,
		docLinks: []HttpLink{resourceManagerDocs},
	}

	propertyInconsistentIssue = &Issue{
		id:    PropertyInconsistentId,
		key:   diag.PropertyInconsistent.ID,
		title: diag.PropertyInconsistent.Title,
		mdMsg: `
# RXG0004: inconsistent properties

Two files of the same family set different values for one naming property
(` + "`RootNamespace`, `ProjectDir`, `Namespace`, `ResourceName` or `ClassName`" + `).
The per-file values are ignored for that property and the computed default
is used instead.

## Things you can try
- Make every culture variant of the family carry the same value
- Narrow the metadata rule so it matches all variants:
~~~cue
files: [{pattern: "Resources/Errors*.resx", metadata: ClassName: "ErrorText"}]
~~~
- List the family members and their cultures:
~~~
$ resxgen families
~~~`,
		docLinks: []HttpLink{msbuildPropsDocs},
	}

	projectFileInvalidIssue = &Issue{
		id:    ProjectFileInvalidId,
		key:   "project_file_invalid",
		title: "Invalid project file",
		mdMsg: `
# Invalid project file

` + "`resxgen.cue` or `resxgen.toml`" + ` could not be loaded.

## Things you can try
- Check the reported field path against the schema
- Keep only one of ` + "`resxgen.cue` and `resxgen.toml`" + ` in a directory
- Recreate a starter file:
~~~
$ resxgen init --format cue
~~~`,
		docLinks: []HttpLink{cueDocs},
	}

	configLoadFailedIssue = &Issue{
		id:    ConfigLoadFailedId,
		key:   "config_load_failed",
		title: "Failed to load configuration",
		mdMsg: `
# Failed to load configuration

The application configuration file or a ` + "`RESXGEN_*`" + ` environment variable
holds an invalid value.

## Things you can try
- Show where the configuration is read from:
~~~
$ resxgen config path
~~~
- Compare against the defaults:
~~~
$ resxgen config dump
~~~`,
		docLinks: []HttpLink{cueDocs},
	}

	staleOutputIssue = &Issue{
		id:    StaleOutputId,
		key:   "stale_output",
		title: "Generated files are out of date",
		mdMsg: `
# Generated files are out of date

` + "`resxgen generate --check`" + ` found generated files that are missing or differ
from what the current resource files produce.

## Things you can try
- Regenerate and commit the result:
~~~
$ resxgen generate
~~~`,
		docLinks: []HttpLink{resxFormatDocs},
	}

	outputWriteFailedIssue = &Issue{
		id:    OutputWriteFailedId,
		key:   "output_write_failed",
		title: "Failed to write generated file",
		mdMsg: `
# Failed to write generated file

A generated ` + "`.resx.g.cs`" + ` file could not be written.

## Things you can try
- Check that the output directory is writable
- Choose another output directory:
~~~
$ resxgen generate --out ./Generated
~~~`,
		docLinks: []HttpLink{resxFormatDocs},
	}

	issues = map[Id]*Issue{
		resxParseFailedIssue.Id():        resxParseFailedIssue,
		namespaceUnresolvedIssue.Id():    namespaceUnresolvedIssue,
		resourceNameUnresolvedIssue.Id(): resourceNameUnresolvedIssue,
		propertyInconsistentIssue.Id():   propertyInconsistentIssue,
		projectFileInvalidIssue.Id():     projectFileInvalidIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		staleOutputIssue.Id():            staleOutputIssue,
		outputWriteFailedIssue.Id():      outputWriteFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by key, diagnostic ID (case-insensitive) or
// diagnostic code.
func Lookup(key string) (*Issue, bool) {
	if d, ok := diag.Lookup(key); ok {
		key = d.ID
	}
	for _, i := range issues {
		if strings.EqualFold(i.key, key) {
			return i, true
		}
	}
	return nil, false
}
