package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CacheControl marks successful GET responses as privately cacheable for
// maxAge. Every other response, including GET errors, gets "no-store".
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	value := "private, max-age=" + strconv.Itoa(int(maxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				w.Header().Set("Cache-Control", "no-store")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&cacheWriter{ResponseWriter: w, cacheable: value}, r)
		})
	}
}

// cacheWriter sets Cache-Control once the status code is known.
type cacheWriter struct {
	http.ResponseWriter
	cacheable   string
	wroteHeader bool
}

func (cw *cacheWriter) WriteHeader(code int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		if code == http.StatusOK {
			cw.Header().Set("Cache-Control", cw.cacheable)
		} else {
			cw.Header().Set("Cache-Control", "no-store")
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

// Flush implements http.Flusher when the underlying writer supports it.
func (cw *cacheWriter) Flush() {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (cw *cacheWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
