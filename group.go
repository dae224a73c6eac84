package binder

// Group is a collection of routes under a shared prefix.
type Group struct {
	reg    Registrar
	prefix string
	opts   []RouteOption
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupOptions applies opts to every route registered on the group,
// before the route's own options.
func WithGroupOptions(opts ...RouteOption) GroupOption {
	return func(g *Group) {
		g.opts = append(g.opts, opts...)
	}
}

// Group creates a new route group with the given prefix and options.
func (r *Router) Group(prefix string, opts ...GroupOption) *Group {
	return newGroup(r, prefix, opts)
}

// Group creates a nested group whose prefix extends g's.
func (g *Group) Group(prefix string, opts ...GroupOption) *Group {
	return newGroup(g, prefix, opts)
}

func newGroup(reg Registrar, prefix string, opts []GroupOption) *Group {
	g := &Group{reg: reg, prefix: prefix}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// addEndpoint implements Registrar for Group.
func (g *Group) addEndpoint(method, pattern string, ep *endpoint) error {
	if len(g.opts) > 0 {
		own := *ep
		*ep = endpoint{handler: own.handler}
		for _, opt := range g.opts {
			opt(ep)
		}
		ep.params = append(ep.params, own.params...)
		if own.status != 0 {
			ep.status = own.status
		}
		if own.summary != "" {
			ep.summary = own.summary
		}
		if own.desc != "" {
			ep.desc = own.desc
		}
	}
	return g.reg.addEndpoint(method, g.prefix+pattern, ep)
}
