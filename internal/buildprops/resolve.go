// SPDX-License-Identifier: MPL-2.0

package buildprops

import (
	"log/slog"

	"github.com/invowk/resxgen/internal/diag"
)

type (
	// Property describes one naming property and where it is looked up.
	Property struct {
		// Name is the metadata name, e.g. "RootNamespace".
		Name string
		// Globals are the build-wide property names consulted, in order, when
		// no member file supplies a value.
		Globals []string
	}

	// Resolved holds the outcome for every property. A nil field means the
	// property is absent for the family.
	Resolved struct {
		RootNamespace *string
		ProjectDir    *string
		Namespace     *string
		ResourceName  *string
		ClassName     *string
	}
)

var (
	// RootNamespace is the namespace that resource names are rooted at.
	RootNamespace = Property{Name: "RootNamespace", Globals: []string{"RootNamespace"}}
	// ProjectDir is the directory resource paths are made relative to.
	ProjectDir = Property{Name: "ProjectDir", Globals: []string{"ProjectDir"}}
	// Namespace overrides the computed namespace of the generated class.
	Namespace = Property{Name: "Namespace", Globals: []string{"DefaultResourcesNamespace", "Namespace"}}
	// ResourceName overrides the computed manifest resource name.
	ResourceName = Property{Name: "ResourceName"}
	// ClassName overrides the generated class name.
	ClassName = Property{Name: "ClassName"}
)

// Properties returns every property in resolution order.
func Properties() []Property {
	return []Property{RootNamespace, ProjectDir, Namespace, ResourceName, ClassName}
}

// FileKey returns the per-file metadata key for p.
func (p Property) FileKey() string { return FileKeyPrefix + p.Name }

// GlobalKeys returns the build-wide keys for p in lookup order.
func (p Property) GlobalKeys() []string {
	keys := make([]string, len(p.Globals))
	for i, g := range p.Globals {
		keys[i] = GlobalKeyPrefix + g
	}
	return keys
}

// Resolve resolves every property for the family whose member paths are
// given in family order. Diagnostics are returned in property order.
func Resolve(paths []string, provider Provider) (Resolved, []diag.Diagnostic) {
	var (
		r     Resolved
		diags []diag.Diagnostic
	)
	slots := []**string{&r.RootNamespace, &r.ProjectDir, &r.Namespace, &r.ResourceName, &r.ClassName}
	for i, p := range Properties() {
		v, d := p.Resolve(paths, provider)
		*slots[i] = v
		if d != nil {
			diags = append(diags, *d)
		}
	}
	return r, diags
}

// Resolve resolves a single property. The returned diagnostic is non-nil
// only when member files disagree, in which case the value is nil and the
// global keys are not consulted.
func (p Property) Resolve(paths []string, provider Provider) (*string, *diag.Diagnostic) {
	key := p.FileKey()

	var agreed string
	for _, path := range paths {
		v, ok := provider.FileOptions(path).Get(key)
		if !ok || v == "" {
			continue
		}
		if agreed != "" && v != agreed {
			slog.Debug("inconsistent property", "property", p.Name, "path", path, "value", v, "previous", agreed)
			d := diag.PropertyInconsistent.New(path, p.Name, path)
			return nil, &d
		}
		agreed = v
	}
	if agreed != "" {
		return &agreed, nil
	}

	globals := provider.GlobalOptions()
	for _, gk := range p.GlobalKeys() {
		if v, ok := globals.Get(gk); ok && v != "" {
			return &v, nil
		}
	}
	return nil, nil
}

// Values returns the resolved values keyed by property name, with absent
// properties omitted.
func (r Resolved) Values() map[string]string {
	out := make(map[string]string, 5)
	for name, v := range map[string]*string{
		RootNamespace.Name: r.RootNamespace,
		ProjectDir.Name:    r.ProjectDir,
		Namespace.Name:     r.Namespace,
		ResourceName.Name:  r.ResourceName,
		ClassName.Name:     r.ClassName,
	} {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}
