package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-core-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// KioskRequired rejects requests that did not present a valid kiosk token.
func KioskRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing kiosk token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid kiosk token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "kiosk" {
				response.Unauthorized(w, "Invalid kiosk token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
