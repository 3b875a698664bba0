package middleware

import "net/http"

// APIVersion stamps every response with the running build's version.
func APIVersion(version string) func(next http.Handler) http.Handler {
	if version == "" {
		version = "dev"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Iris-Version", version)
			next.ServeHTTP(w, r)
		})
	}
}
