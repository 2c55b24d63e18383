package handlers

import (
	"net/http"

	"github.com/osintsev/tweetgen/internal/handlers/render"
)

func handleHealth() http.Handler {
	type response struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, response{Status: "healthy", Service: "tweetgen"})
	})
}
