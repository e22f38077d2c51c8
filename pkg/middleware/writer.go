package middleware

import (
	"net/http"

	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/httputil"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/logger"
)

// statusRecorder captures the status code and body size written by the next
// handler. It is shared by the logging, metrics, tracing and cache middleware.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
	onHeader    func(status int, h http.Header)
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
		if rw.onHeader != nil {
			rw.onHeader(code, rw.ResponseWriter.Header())
		}
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// writeError renders err in the envelope handlers use. Callers log before
// writing.
func writeError(w http.ResponseWriter, r *http.Request, err *apperrors.AppError) {
	httputil.WriteJSON(w, err.Status, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:      err.Code,
			Message:   err.Message,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}
