package handlers

import (
	"net/http"

	"github.com/osintsev/tweetgen/internal/handlers/render"
	"github.com/osintsev/tweetgen/internal/handlers/userctx"
)

func handleUserMe() http.Handler {
	type response struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role})
	})
}
