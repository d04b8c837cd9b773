package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"empire_trader/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/deposits", handler(s.getV1Deposits))
			r.Get("/accounts/{accountID}/inventory", handler(s.getV1AccountInventory))
			r.Post("/confirmations", handler(s.postV1Confirmation))
			r.Get("/trades", handler(s.getV1Trades))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
