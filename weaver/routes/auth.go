package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"weaver/weaver/apperrors"
	"weaver/weaver/controllers"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token, err := ctrl.Token(r.Context(), req.UserID)
		if err != nil {
			http.Error(w, err.Error(), apperrors.HTTPStatus(err))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	return r
}
