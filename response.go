package binder

import (
	"net/http"
)

// HeaderSetter is optionally implemented by handler results to set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// writeResponse encodes resp with the encoder negotiated from the Accept
// header. An Accept header nothing satisfies falls back to JSON rather
// than failing the request. Problem documents use the problem+ variant
// of the content type.
func writeResponse(w http.ResponseWriter, r *http.Request, resp *Response, codecs *codecRegistry) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if hs, ok := resp.Value.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}

	if resp.Value == nil || resp.Status == http.StatusNoContent {
		w.WriteHeader(resp.Status)
		return
	}

	enc, ok := codecs.negotiate(r.Header.Get("Accept"))
	if !ok {
		enc = codecs.encoders[0]
	}

	contentType := enc.ContentType()
	if _, isProblem := resp.Value.(*ProblemDetail); isProblem {
		contentType = problemType(contentType)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.Status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, resp.Value)
}

// writeProblem writes err as a JSON problem document. Used by middleware
// that answers before the router sees the request.
func writeProblem(w http.ResponseWriter, r *http.Request, err error) {
	writeResponse(w, r, problemResponse(err), newCodecRegistry(nil))
}
