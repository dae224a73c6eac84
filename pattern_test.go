package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/binder"
)

func TestParsePattern(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern      string
		wantSegments []binder.Segment
		wantErr      bool
	}{
		"literal": {
			pattern: "/users/me",
			wantSegments: []binder.Segment{
				{Kind: binder.SegmentLiteral, Value: "users"},
				{Kind: binder.SegmentLiteral, Value: "me"},
			},
		},
		"placeholder": {
			pattern: "/users/{user_id}",
			wantSegments: []binder.Segment{
				{Kind: binder.SegmentLiteral, Value: "users"},
				{Kind: binder.SegmentParam, Value: "user_id"},
			},
		},
		"declared kind": {
			pattern: "/items/{item_id:int}",
			wantSegments: []binder.Segment{
				{Kind: binder.SegmentLiteral, Value: "items"},
				{Kind: binder.SegmentParam, Value: "item_id", Declared: "int"},
			},
		},
		"rest of path": {
			pattern: "/files/{file_path:path}",
			wantSegments: []binder.Segment{
				{Kind: binder.SegmentLiteral, Value: "files"},
				{Kind: binder.SegmentRest, Value: "file_path"},
			},
		},
		"trailing slash is a literal empty segment": {
			pattern: "/items/",
			wantSegments: []binder.Segment{
				{Kind: binder.SegmentLiteral, Value: "items"},
				{Kind: binder.SegmentLiteral, Value: ""},
			},
		},
		"missing leading slash":  {pattern: "items", wantErr: true},
		"partial placeholder":    {pattern: "/a{b}", wantErr: true},
		"empty placeholder":      {pattern: "/{}", wantErr: true},
		"name starts with digit": {pattern: "/{1a}", wantErr: true},
		"duplicate placeholder":  {pattern: "/{a}/x/{a}", wantErr: true},
		"rest not last":          {pattern: "/{p:path}/x", wantErr: true},
		"unknown kind":           {pattern: "/{d:date}", wantErr: true},
		"unbalanced brace":       {pattern: "/{a", wantErr: true},
		"nested braces":          {pattern: "/{{a}}", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := binder.ParsePattern(tc.pattern)
			if tc.wantErr {
				require.ErrorIs(t, err, binder.ErrPatternSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSegments, p.Segments())
			assert.Equal(t, tc.pattern, p.String())
		})
	}
}

func TestPatternPlaceholders(t *testing.T) {
	t.Parallel()

	p, err := binder.ParsePattern("/users/{user_id}/items/{item_id:int}")
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "item_id"}, p.Placeholders())
}

func TestPatternShape(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b string
		same bool
	}{
		"placeholder names do not matter":  {a: "/items/{id}", b: "/items/{item_id:int}", same: true},
		"literal differs from placeholder": {a: "/items/me", b: "/items/{id}"},
		"rest differs from placeholder":    {a: "/files/{p:path}", b: "/files/{name}"},
		"segment count matters":            {a: "/a/{x}", b: "/a/{x}/{y}"},
		"placeholder position matters":     {a: "/a/{x}/c", b: "/a/b/{y}"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := binder.ParsePattern(tc.a)
			require.NoError(t, err)
			b, err := binder.ParsePattern(tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.same, binder.ShapeOf(a) == binder.ShapeOf(b))
		})
	}
}
