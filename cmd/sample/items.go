package main

import (
	"context"
	"net/http"

	"github.com/bjaus/binder"
)

var (
	imageRecord = binder.NewRecord("Image",
		binder.Field("url", binder.URL),
		binder.Field("name", binder.String),
	)

	itemRecord = binder.NewRecord("Item",
		binder.Field("name", binder.String),
		binder.Field("description", binder.Optional(binder.String)),
		binder.Field("price", binder.Float),
		binder.Field("tax", binder.Optional(binder.Float)),
	)

	// detailedItemRecord carries nested sets and lists.
	detailedItemRecord = binder.NewRecord("DetailedItem",
		binder.Field("name", binder.String),
		binder.Field("description", binder.Optional(binder.String)),
		binder.Field("price", binder.Float),
		binder.Field("tax", binder.Optional(binder.Float)),
		binder.Field("tags", binder.SetOf(binder.String), binder.Default([]string{})),
		binder.Field("images", binder.Optional(binder.ListOf(binder.RecordOf(imageRecord)))),
	)

	// validatedItemRecord declares constraints on its fields.
	validatedItemRecord = binder.NewRecord("ValidatedItem",
		binder.Field("name", binder.String),
		binder.Field("description", binder.Optional(binder.String),
			binder.Title("The description of the item"), binder.MaxLength(3)),
		binder.Field("price", binder.Float, binder.Gt(0),
			binder.Description("The price must be greater than zero")),
		binder.Field("tax", binder.Optional(binder.Float)),
	)

	offerRecord = binder.NewRecord("Offer",
		binder.Field("name", binder.String),
		binder.Field("description", binder.Optional(binder.String)),
		binder.Field("price", binder.Float),
		binder.Field("items", binder.ListOf(binder.RecordOf(detailedItemRecord))),
	)

	userRecord = binder.NewRecord("User",
		binder.Field("username", binder.String),
		binder.Field("full_name", binder.Optional(binder.String)),
	)
)

var fakeItemsDB = []map[string]string{
	{"item_name": "Foo"},
	{"item_name": "Bar"},
	{"item_name": "Baz"},
}

// currentUser is per-caller, so intermediaries must not cache it.
type currentUser struct {
	UserID string `json:"user_id" yaml:"user_id"`
}

func (currentUser) SetHeaders(h http.Header) {
	h.Set("Cache-Control", "private, no-store")
}

// registerItems declares the demo routes.
func registerItems(r *binder.Router) {
	binder.Get(r, "/", func(context.Context, binder.Args) (any, error) {
		return map[string]string{"message": "Hello World"}, nil
	})

	binder.Get(r, "/users/me", func(context.Context, binder.Args) (any, error) {
		return currentUser{UserID: "the current user"}, nil
	}, binder.WithSummary("The current user"))

	binder.Get(r, "/users/{user_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]string{"user_id": args.String("user_id")}, nil
	}, binder.WithParams(binder.PathParam("user_id", binder.String)))

	binder.Get(r, "/users/{user_id}/items/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"item_id": args.String("item_id"), "owner_id": args.Int("user_id")}, nil
	}, binder.WithParams(
		binder.PathParam("user_id", binder.Int),
		binder.PathParam("item_id", binder.String),
	))

	binder.Get(r, "/files/{file_path:path}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]string{"file_path": args.String("file_path")}, nil
	}, binder.WithParams(binder.PathParam("file_path", binder.String)))

	binder.Get(r, "/items/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"item_id": args.Int("item_id")}, nil
	}, binder.WithParams(binder.PathParam("item_id", binder.Int)))

	binder.Put(r, "/items/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		out := args.Object("item").Map()
		out["item_id"] = args.Int("item_id")
		return out, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.Int),
		binder.BodyParam("item", binder.RecordOf(itemRecord)),
	))

	binder.Post(r, "/items/", createItem, binder.WithParams(
		binder.BodyParam("item", binder.RecordOf(itemRecord)),
	))

	binder.Get(r, "/items_1/", func(_ context.Context, args binder.Args) (any, error) {
		skip := min(max(args.Int("skip"), 0), int64(len(fakeItemsDB)))
		end := min(skip+max(args.Int("limit"), 0), int64(len(fakeItemsDB)))
		return fakeItemsDB[skip:end], nil
	}, binder.WithParams(
		binder.QueryParam("skip", binder.Int, binder.Default(0)),
		binder.QueryParam("limit", binder.Int, binder.Default(10)),
	))

	binder.Get(r, "/items_2/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		out := map[string]any{"item_id": args.String("item_id")}
		if q := args.String("q"); q != "" {
			out["q"] = q
		}
		return out, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.String),
		binder.QueryParam("q", binder.Optional(binder.String)),
	))

	binder.Get(r, "/items_3/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		out := map[string]any{"item_id": args.String("item_id")}
		if !args.Bool("short") {
			out["description"] = "This is an amazing item that has a long description"
		}
		return out, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.String),
		binder.QueryParam("short", binder.Bool, binder.Default(false)),
	))

	binder.Get(r, "/items_4/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"item_id": args.String("item_id"), "needy": args.String("needy")}, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.String),
		binder.QueryParam("needy", binder.String),
	))

	binder.Get(r, "/items_5/", func(_ context.Context, args binder.Args) (any, error) {
		out := map[string]any{"items": []map[string]string{{"item_id": "Foo"}, {"item_id": "Bar"}}}
		if q := args.String("q"); q != "" {
			out["q"] = q
		}
		return out, nil
	}, binder.WithParams(
		binder.QueryParam("q", binder.Optional(binder.String), binder.MaxLength(5)),
	))

	binder.Get(r, "/items_6/", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"q": args["q"]}, nil
	}, binder.WithParams(
		binder.QueryParam("q", binder.Optional(binder.ListOf(binder.String))),
	))

	binder.Get(r, "/items_7/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		out := map[string]any{"item_id": args.Int("item_id")}
		if q := args.String("q"); q != "" {
			out["q"] = q
		}
		return out, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.Int, binder.Title("The ID of the item to get")),
		binder.QueryParam("q", binder.Optional(binder.String), binder.Alias("item-query")),
	))

	binder.Get(r, "/items_8/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		out := map[string]any{"item_id": args.Int("item_id")}
		if q := args.String("q"); q != "" {
			out["q"] = q
		}
		return out, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.Int, binder.Title("The ID of the item to get"), binder.Ge(100)),
		binder.QueryParam("q", binder.String),
	))

	binder.Put(r, "/items_1/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{
			"item_id": args.Int("item_id"),
			"item":    args.Object("item"),
			"user":    args.Object("user"),
		}, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.Int),
		binder.BodyParam("item", binder.RecordOf(itemRecord)),
		binder.BodyParam("user", binder.RecordOf(userRecord)),
		binder.BodyParam("importance", binder.Int),
	))

	binder.Put(r, "/items_2/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		out := map[string]any{
			"item_id":    args.Int("item_id"),
			"item":       args.Object("item"),
			"user":       args.Object("user"),
			"importance": args.Int("importance"),
		}
		if q := args.String("q"); q != "" {
			out["q"] = q
		}
		return out, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.Int),
		binder.BodyParam("item", binder.RecordOf(itemRecord)),
		binder.BodyParam("user", binder.RecordOf(userRecord)),
		binder.BodyParam("importance", binder.Int, binder.Gt(0)),
		binder.QueryParam("q", binder.Optional(binder.String)),
	))

	binder.Put(r, "/items_3/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"item_id": args.Int("item_id"), "item": args.Object("item")}, nil
	}, binder.WithParams(
		binder.PathParam("item_id", binder.Int),
		binder.BodyParam("item", binder.RecordOf(validatedItemRecord), binder.Embed()),
	))

	binder.Post(r, "/offers/", func(_ context.Context, args binder.Args) (any, error) {
		return args.Object("offer"), nil
	}, binder.WithParams(
		binder.BodyParam("offer", binder.RecordOf(offerRecord), binder.Embed()),
	))
}

func createItem(_ context.Context, args binder.Args) (any, error) {
	item := args.Object("item")
	out := item.Map()
	if tax := item.Float("tax"); tax != 0 {
		out["price_with_tax"] = item.Float("price") + tax
	}
	return out, nil
}
