package middleware

import "net/http"

// Dispatch records one observation per request, classified by the
// routing table. classify maps (method, path) to an action label;
// record receives the label and the final status code.
func Dispatch(classify func(method, path string) string, record func(action string, status int)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action := classify(r.Method, r.URL.Path)
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			record(action, status)
		})
	}
}
