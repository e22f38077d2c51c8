package middleware

import (
	"net/http"
	"strconv"
)

// CacheControl lets the client cache successful GET responses for maxAge
// seconds. Shared caches must not store them, so a revoked resource stops
// being served by proxies at once; a client that already fetched it may
// reuse its copy until maxAge runs out. Error responses are marked
// no-store. maxAge <= 0 disables it.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	value := "private, max-age=" + strconv.Itoa(maxAge)
	return func(next http.Handler) http.Handler {
		if maxAge <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			rec := newStatusRecorder(w)
			rec.onHeader = func(status int, h http.Header) {
				if status >= 200 && status < 300 {
					h.Set("Cache-Control", value)
				} else {
					h.Set("Cache-Control", "no-store")
				}
			}
			next.ServeHTTP(rec, r)
		})
	}
}
