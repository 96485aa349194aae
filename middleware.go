package components

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
)

// Middleware gives every request a Dependencies set, so the Components its
// handler renders through the Engine are recorded, and replaces the
// placeholders in HTML responses with the media of those Components once the
// handler returns.
//
// Responses are buffered in full so the placeholders can be replaced before
// anything is sent. Responses that aren't text/html pass through unchanged.
func (e *Engine) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deps := NewDependencies()
		ctx := WithDependencies(r.Context(), deps)

		buf := e.buffers.Get()
		defer e.buffers.Put(buf)
		resp := &bufferedResponse{
			header: http.Header{},
			body:   buf,
		}
		next.ServeHTTP(resp, r.WithContext(ctx))

		body := buf.Bytes()
		if isHTML(resp.header) {
			body = e.processDependencies(ctx, deps, body)
			if resp.header.Get("Content-Length") != "" {
				resp.header.Set("Content-Length", strconv.Itoa(len(body)))
			}
		}

		for key, vals := range resp.header {
			w.Header()[key] = vals
		}
		w.WriteHeader(resp.statusCode())
		if _, err := w.Write(body); err != nil {
			logger(ctx).ErrorContext(ctx, "error writing response", "error", err)
		}
	})
}

func isHTML(header http.Header) bool {
	mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}

// bufferedResponse is an http.ResponseWriter that holds on to everything
// written to it.
type bufferedResponse struct {
	header http.Header
	body   *bytes.Buffer
	status int
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status != 0 {
		return
	}
	b.status = status
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.WriteHeader(http.StatusOK)
	}
	if b.header.Get("Content-Type") == "" && b.body.Len() == 0 {
		b.header.Set("Content-Type", http.DetectContentType(p))
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) statusCode() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}
