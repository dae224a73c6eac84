package binder

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// RouteInfo describes one registered route for introspection.
type RouteInfo struct {
	Method      string      `json:"method" yaml:"method"`
	Pattern     string      `json:"pattern" yaml:"pattern"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Status      int         `json:"status" yaml:"status"`
	Params      []ParamInfo `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParamInfo describes one declared parameter.
type ParamInfo struct {
	Name        string           `json:"name" yaml:"name"`
	In          Source           `json:"in" yaml:"in"`
	WireName    string           `json:"wire_name,omitempty" yaml:"wire_name,omitempty"`
	Type        string           `json:"type" yaml:"type"`
	Required    bool             `json:"required" yaml:"required"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Embed       bool             `json:"embed,omitempty" yaml:"embed,omitempty"`
	Title       string           `json:"title,omitempty" yaml:"title,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Constraints []ConstraintInfo `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Fields      []FieldInfo      `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// FieldInfo describes one field of a record-typed parameter.
type FieldInfo struct {
	Name        string           `json:"name" yaml:"name"`
	Type        string           `json:"type" yaml:"type"`
	Required    bool             `json:"required" yaml:"required"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Constraints []ConstraintInfo `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Fields      []FieldInfo      `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ConstraintInfo is a constraint in dump form.
type ConstraintInfo struct {
	Kind  ConstraintKind `json:"kind" yaml:"kind"`
	Bound any            `json:"bound" yaml:"bound"`
}

// RouteDump is the document written by WriteRoutes and served by ServeRoutes.
type RouteDump struct {
	Title   string      `json:"title,omitempty" yaml:"title,omitempty"`
	Version string      `json:"version,omitempty" yaml:"version,omitempty"`
	Routes  []RouteInfo `json:"routes" yaml:"routes"`
}

// Routes returns every registered route in registration order.
func (r *Router) Routes() []RouteInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RouteInfo
	for _, rt := range r.table.Routes() {
		info := RouteInfo{Method: rt.Method, Pattern: rt.Pattern.String()}
		if ep := rt.ep; ep != nil {
			info.Summary = ep.summary
			info.Description = ep.desc
			info.Status = ep.status
			for _, p := range ep.params {
				info.Params = append(info.Params, paramInfo(p))
			}
		}
		out = append(out, info)
	}
	return out
}

func (r *Router) dump() RouteDump {
	return RouteDump{Title: r.title, Version: r.version, Routes: r.Routes()}
}

func paramInfo(p Param) ParamInfo {
	info := ParamInfo{
		Name:        p.Name,
		In:          p.Source,
		Type:        p.spec.typ.String(),
		Required:    p.Required(),
		Embed:       p.spec.embed,
		Title:       p.spec.title,
		Description: p.spec.desc,
		Constraints: constraintInfos(p.spec.constraints),
		Fields:      fieldInfos(p.spec.typ),
	}
	if w := p.WireName(); w != p.Name {
		info.WireName = w
	}
	if p.spec.hasDefault {
		info.Default = p.spec.dflt
	}
	return info
}

func fieldInfos(t Type) []FieldInfo {
	if elem, ok := t.Elem(); ok {
		t = elem
	}
	if t.record == nil {
		return nil
	}
	out := make([]FieldInfo, 0, len(t.record.fields))
	for _, f := range t.record.fields {
		fi := FieldInfo{
			Name:        f.Name,
			Type:        f.spec.typ.String(),
			Required:    f.Required(),
			Constraints: constraintInfos(f.spec.constraints),
			Fields:      fieldInfos(f.spec.typ),
		}
		if f.spec.hasDefault {
			fi.Default = f.spec.dflt
		}
		out = append(out, fi)
	}
	return out
}

func constraintInfos(cs Constraints) []ConstraintInfo {
	if len(cs) == 0 {
		return nil
	}
	out := make([]ConstraintInfo, len(cs))
	for i, c := range cs {
		out[i] = ConstraintInfo{Kind: c.Kind, Bound: c.Bound}
	}
	return out
}

// ServeRoutes registers a GET route at pattern that serves the route dump.
// The response format follows the Accept header like any other route.
// The dump is built on first request, once the table is sealed.
func (r *Router) ServeRoutes(pattern string) {
	dump := sync.OnceValue(r.dump)
	Get(r, pattern, func(context.Context, Args) (any, error) {
		return dump(), nil
	}, WithSummary("List registered routes"))
}

// WriteRoutes writes the route dump as indented JSON to w.
func (r *Router) WriteRoutes(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.dump())
}

// WriteRoutesYAML writes the route dump as YAML to w.
func (r *Router) WriteRoutesYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.dump()); err != nil {
		return err
	}
	return enc.Close()
}
