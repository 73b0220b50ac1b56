package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// JSON-RPC 2.0 request structure
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// JSON-RPC 2.0 response structure
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603

	JSONRPCUnauthorized        = -32001
	JSONRPCConstraintViolation = -32009
)

// HandleJSONRPC serves /api/rpc. It accepts a single request object or a
// batch array and always answers 200 with the result or error inside.
func (h *Handlers) HandleJSONRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProcedureBody))
	if err != nil {
		writeSuccess(w, rpcError(nil, JSONRPCParseError, "could not read request body"), http.StatusOK)
		return
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var batch []json.RawMessage
		if err := json.Unmarshal(body, &batch); err != nil {
			writeSuccess(w, rpcError(nil, JSONRPCParseError, "Parse error"), http.StatusOK)
			return
		}
		if len(batch) == 0 {
			writeSuccess(w, rpcError(nil, JSONRPCInvalidRequest, "empty batch"), http.StatusOK)
			return
		}

		responses := make([]JSONRPCResponse, 0, len(batch))
		for _, raw := range batch {
			responses = append(responses, h.handleRPCMessage(r, raw))
		}
		writeSuccess(w, responses, http.StatusOK)
		return
	}

	writeSuccess(w, h.handleRPCMessage(r, body), http.StatusOK)
}

func (h *Handlers) handleRPCMessage(r *http.Request, raw json.RawMessage) JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return rpcError(nil, JSONRPCParseError, "Parse error")
	}

	if req.JSONRPC != "2.0" {
		return rpcError(req.ID, JSONRPCInvalidRequest, "jsonrpc must be '2.0'")
	}
	if req.Method == "" {
		return rpcError(req.ID, JSONRPCInvalidRequest, "method is required")
	}

	out, f := h.invoke(r.Context(), "jsonrpc", req.Method, req.Params)
	if f != nil {
		return rpcError(req.ID, f.rpcCode, f.message)
	}

	// a null result must still be present in the envelope
	if out == nil {
		out = json.RawMessage("null")
	}

	return JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: out}
}

func rpcError(id interface{}, code int, message string) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	}
}
