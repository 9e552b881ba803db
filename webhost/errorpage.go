package webhost

import (
	"fmt"
	"net/http"
)

const startupErrorMessage = "An error occurred while starting the application."

// startupErrorHandler answers every request when the startup failed and the
// host was asked to capture startup errors.
func startupErrorHandler(err error, detailed bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)

		if detailed {
			_, _ = fmt.Fprintf(w, "%s\n\n%v\n", startupErrorMessage, err)
			return
		}

		_, _ = fmt.Fprintln(w, startupErrorMessage)
	})
}
