package binder

// Test-only exports for internal functions.
var (
	NormalizeDefault = normalizeDefault
	SplitPath        = splitPath
	ReadBody         = readBody
)

// ShapeOf exposes the ambiguity key of a parsed pattern.
func ShapeOf(p Pattern) string { return p.shape() }

// Negotiate returns the content type picked for an Accept header by the
// default codec registry.
func Negotiate(accept string) (string, bool) {
	enc, ok := newCodecRegistry(nil).negotiate(accept)
	if !ok {
		return "", false
	}
	return enc.ContentType(), true
}
