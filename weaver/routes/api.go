package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"weaver/weaver/apperrors"
	"weaver/weaver/config"
	"weaver/weaver/controllers"
	"weaver/weaver/middlewares"
	"weaver/weaver/utils/types"
)

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

// APIRoutes registers the workflow RPC surface consumed by the front end.
func APIRoutes(
	schemaCtrl *controllers.SchemaController,
	searchCtrl *controllers.SearchController,
	extractCtrl *controllers.ExtractController,
	deployCtrl *controllers.DeployController,
	cfg config.Config,
) chi.Router {
	r := chi.NewRouter()

	// POST /generate-schema
	r.Post("/generate-schema", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.GenerateSchemaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		schema, err := schemaCtrl.GenerateSchema(r.Context(), req.Query, req.Provider)
		if err != nil {
			return nil, apperrors.HTTPStatus(err), err
		}
		return types.GenerateSchemaResponse{Schema: *schema}, http.StatusOK, nil
	}))

	// POST /search
	r.Post("/search", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		set, err := searchCtrl.Search(r.Context(), req.Query, req.Limit)
		if err != nil {
			return types.SearchResponse{Success: false, Error: err.Error()}, apperrors.HTTPStatus(err), nil
		}
		return types.SearchResponse{Success: true, SearchResults: set}, http.StatusOK, nil
	}))

	// POST /extract
	r.Post("/extract", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		data, err := extractCtrl.Extract(r.Context(), req)
		if err != nil {
			return types.ExtractResponse{Success: false, Error: err.Error()}, apperrors.HTTPStatus(err), nil
		}
		return types.ExtractResponse{Success: true, Data: data}, http.StatusOK, nil
	}))

	// POST /deploy
	r.Post("/deploy", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.DeployRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		resp, err := deployCtrl.Deploy(r.Context(), req)
		if err != nil {
			return map[string]any{"success": false, "message": err.Error()}, apperrors.HTTPStatus(err), nil
		}
		return resp, http.StatusOK, nil
	}))

	// Endpoint management is the one authenticated surface
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		// GET /chat/list
		gr.Get("/chat/list", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(string)
			endpoints, err := deployCtrl.ListEndpoints(r.Context(), userID)
			if err != nil {
				return nil, apperrors.HTTPStatus(err), err
			}
			return types.EndpointListResponse{Success: true, Endpoints: endpoints}, http.StatusOK, nil
		}))

		// GET /chat/{endpoint}
		gr.Get("/chat/{endpoint}", handleJSON(func(r *http.Request) (any, int, error) {
			userID := r.Context().Value(middlewares.UserIDKey).(string)
			endpoint := chi.URLParam(r, "endpoint")
			resp, err := deployCtrl.GetEndpoint(r.Context(), userID, endpoint)
			if err != nil {
				return nil, apperrors.HTTPStatus(err), err
			}
			return resp, http.StatusOK, nil
		}))
	})

	return r
}
