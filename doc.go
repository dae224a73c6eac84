// Package binder is a declarative routing, binding and validation engine
// for HTTP APIs. Handlers declare their parameters as data: a name, a
// source (path, query or body), a type, an optional default and a set of
// constraints. The engine matches the request to a route, coerces every
// raw value into its declared type, validates it, and calls the handler
// only when every parameter is valid. Otherwise it answers with one
// problem document that lists every parameter error at once.
//
// The handler signature has no http.ResponseWriter or *http.Request:
//
//	type HandlerFunc func(ctx context.Context, args Args) (any, error)
//
// Routes are registered with package-level functions:
//
//	r := binder.New(binder.WithTitle("Items"), binder.WithVersion("1.0.0"))
//	binder.Get(r, "/items/{item_id}", getItem,
//	    binder.WithParams(
//	        binder.PathParam("item_id", binder.Int, binder.Ge(1)),
//	        binder.QueryParam("q", binder.Optional(binder.String), binder.MaxLength(50)),
//	    ))
//
// Patterns may declare the placeholder kind inline ("{id:int}") and end
// with a rest-of-path placeholder ("{file_path:path}"). When several
// patterns match a path the one with fewer placeholders wins, then the
// one without a rest-of-path placeholder, then the one registered first.
//
// Body parameters of record type are validated field by field:
//
//	item := binder.NewRecord("Item",
//	    binder.Field("name", binder.String),
//	    binder.Field("price", binder.Float, binder.Gt(0)),
//	    binder.Field("tags", binder.SetOf(binder.String), binder.Default([]string{})),
//	)
//	binder.Put(r, "/items/{item_id}", updateItem,
//	    binder.WithParams(
//	        binder.PathParam("item_id", binder.Int),
//	        binder.BodyParam("item", binder.RecordOf(item)),
//	    ))
//
// The Router implements http.Handler. Handle is the transport-neutral
// entry point for other hosts. Middleware uses the standard
// func(http.Handler) http.Handler signature.
package binder
