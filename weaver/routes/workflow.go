package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"weaver/weaver/apperrors"
	"weaver/weaver/workflow"
)

type startWorkflowRequest struct {
	Query    string `json:"query"`
	Provider string `json:"provider,omitempty"`
}

type deployWorkflowRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// WorkflowRoutes exposes the orchestrator: blocking start for plain HTTP
// clients plus a websocket that streams stage transitions as they happen.
func WorkflowRoutes(engine *workflow.Engine) chi.Router {
	r := chi.NewRouter()

	// POST /start : run the pipeline through extraction
	r.Post("/start", handleJSON(func(r *http.Request) (any, int, error) {
		var req startWorkflowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		run, err := engine.Start(req.Query, req.Provider)
		if err != nil {
			return nil, apperrors.HTTPStatus(err), err
		}
		state := engine.Execute(r.Context(), run)
		return state, http.StatusOK, nil
	}))

	// GET /{run_id} : current state
	r.Get("/{run_id}", handleJSON(func(r *http.Request) (any, int, error) {
		run, err := engine.Get(chi.URLParam(r, "run_id"))
		if err != nil {
			return nil, apperrors.HTTPStatus(err), err
		}
		return run.Snapshot(), http.StatusOK, nil
	}))

	// POST /{run_id}/deploy : explicit user action, retryable on failure
	r.Post("/{run_id}/deploy", handleJSON(func(r *http.Request) (any, int, error) {
		var req deployWorkflowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		state, err := engine.Deploy(r.Context(), chi.URLParam(r, "run_id"), req.UserID, req.Name)
		if err != nil {
			return map[string]any{"success": false, "message": err.Error(), "state": state},
				apperrors.HTTPStatus(err), nil
		}
		return map[string]any{"success": true, "state": state}, http.StatusOK, nil
	}))

	// POST /{run_id}/reset : back to idle from any state
	r.Post("/{run_id}/reset", handleJSON(func(r *http.Request) (any, int, error) {
		state, err := engine.Reset(chi.URLParam(r, "run_id"))
		if err != nil {
			return nil, apperrors.HTTPStatus(err), err
		}
		return state, http.StatusOK, nil
	}))

	// websocket: start a run and stream its transitions
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var req startWorkflowRequest
		if err := json.Unmarshal(data, &req); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		run, err := engine.Start(req.Query, req.Provider)
		if err != nil {
			msg, _ := json.Marshal(map[string]string{"error": err.Error()})
			conn.Write(ctx, websocket.MessageText, msg)
			conn.Close(websocket.StatusPolicyViolation, "invalid request")
			return
		}

		done := make(chan workflow.RunState, 1)
		go func() {
			done <- engine.Execute(context.WithoutCancel(ctx), run)
		}()

		writeJSON := func(v any) bool {
			b, err := json.Marshal(v)
			if err != nil {
				return false
			}
			return conn.Write(ctx, websocket.MessageText, b) == nil
		}

		for {
			select {
			case ev := <-run.Events():
				if !writeJSON(map[string]any{"type": "transition", "event": ev}) {
					return
				}
			case state := <-done:
				// Flush transitions that raced the final state
				for {
					select {
					case ev := <-run.Events():
						if !writeJSON(map[string]any{"type": "transition", "event": ev}) {
							return
						}
						continue
					default:
					}
					break
				}
				writeJSON(map[string]any{"type": "result", "state": state})
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case <-ctx.Done():
				return
			}
		}
	})

	return r
}
