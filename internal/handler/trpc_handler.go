package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

const maxProcedureBody = 1 << 20

type trpcData struct {
	Data interface{} `json:"data"`
}

type trpcResponse struct {
	Result trpcData `json:"result"`
}

// TRPC serves /api/trpc/{procedure}. POST carries the input as the request
// body; GET carries it in the input query parameter and is limited to
// queries.
func (h *Handlers) TRPC(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["procedure"]

	proc, ok := h.procedures[name]
	if !ok {
		_, f := h.invoke(r.Context(), "trpc", name, nil)
		writeProcedureError(w, *f)
		return
	}

	var input json.RawMessage
	switch r.Method {
	case http.MethodGet:
		if proc.mutation {
			writeProcedureError(w, failure{
				status:  http.StatusMethodNotAllowed,
				code:    "METHOD_NOT_SUPPORTED",
				message: "mutations must be sent with POST",
			})
			return
		}
		input = json.RawMessage(r.URL.Query().Get("input"))
	case http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProcedureBody))
		if err != nil {
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			writeProcedureError(w, failure{status: status, code: "BAD_REQUEST", message: "could not read request body"})
			return
		}
		input = body
	default:
		writeProcedureError(w, failure{status: http.StatusMethodNotAllowed, code: "METHOD_NOT_SUPPORTED", message: "Method not allowed"})
		return
	}

	out, f := h.invoke(r.Context(), "trpc", name, input)
	if f != nil {
		writeProcedureError(w, *f)
		return
	}

	writeSuccess(w, trpcResponse{Result: trpcData{Data: out}}, http.StatusOK)
}
