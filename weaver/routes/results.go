package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"weaver/weaver/apperrors"
	"weaver/weaver/controllers"
)

type resultEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ResultsRoutes registers the public read path. Once deployed, an endpoint
// behaves as a stable read-only JSON resource; internal error detail never
// leaks, only the fixed envelope messages do.
func ResultsRoutes(ctrl *controllers.ResultsController) chi.Router {
	r := chi.NewRouter()

	r.Get("/{chatId}/{chatname}", func(w http.ResponseWriter, r *http.Request) {
		chatID := chi.URLParam(r, "chatId")
		chatname := chi.URLParam(r, "chatname")

		writeEnvelope := func(status int, env resultEnvelope) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(env)
		}

		if chatID == "" || chatname == "" {
			writeEnvelope(http.StatusBadRequest, resultEnvelope{Success: false, Message: "Invalid chatId or chatname"})
			return
		}

		data, err := ctrl.GetResult(r.Context(), chatID, chatname)
		if err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.Validation:
				writeEnvelope(http.StatusBadRequest, resultEnvelope{Success: false, Message: "Invalid chatId or chatname"})
			case apperrors.NotFound:
				writeEnvelope(http.StatusNotFound, resultEnvelope{Success: false, Message: "API endpoint not found"})
			default:
				writeEnvelope(http.StatusInternalServerError, resultEnvelope{Success: false, Message: "Internal server error"})
			}
			return
		}

		writeEnvelope(http.StatusOK, resultEnvelope{Success: true, Data: data})
	})

	return r
}
