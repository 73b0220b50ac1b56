package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"blogCMS/internal/models"

	"go.uber.org/zap"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type procedureFunc func(ctx context.Context, input json.RawMessage) (interface{}, error)

type procedure struct {
	mutation bool
	failure  string
	call     procedureFunc
}

// decodeInput unmarshals a procedure input; an empty or null input yields
// the zero value so validation reports the missing fields.
func decodeInput[In any](raw json.RawMessage) (In, error) {
	var in In
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return in, nil
	}
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return in, &models.ValidationError{Reason: fmt.Sprintf("invalid input: %v", err)}
	}
	return in, nil
}

func withInput[In any, Out any](fn func(context.Context, In) (Out, error)) procedureFunc {
	return func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		in, err := decodeInput[In](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}

func noInput[Out any](fn func(context.Context) (Out, error)) procedureFunc {
	return func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return fn(ctx)
	}
}

func deleted[In any](fn func(context.Context, In) error) procedureFunc {
	return withInput(func(ctx context.Context, in In) (SuccessResponse, error) {
		if err := fn(ctx, in); err != nil {
			return SuccessResponse{}, err
		}
		return SuccessResponse{Success: true}, nil
	})
}

func (h *Handlers) registerProcedures() {
	categories, posts, users := h.services.Category, h.services.Post, h.services.User

	h.procedures = map[string]procedure{
		"categories.create":  {mutation: true, failure: "Failed to create category", call: withInput(categories.Create)},
		"categories.update":  {mutation: true, failure: "Failed to update category", call: withInput(categories.Update)},
		"categories.delete":  {mutation: true, failure: "Failed to delete category", call: deleted(categories.Delete)},
		"categories.getById": {failure: "Failed to load category", call: withInput(categories.GetByID)},
		"categories.list":    {failure: "Failed to load categories", call: noInput(categories.List)},

		"posts.create":    {mutation: true, failure: "Failed to create post", call: withInput(posts.Create)},
		"posts.update":    {mutation: true, failure: "Failed to update post", call: withInput(posts.Update)},
		"posts.delete":    {mutation: true, failure: "Failed to delete post", call: deleted(posts.Delete)},
		"posts.getById":   {failure: "Failed to load post", call: withInput(posts.GetByID)},
		"posts.getBySlug": {failure: "Failed to load post", call: withInput(posts.GetBySlug)},
		"posts.list":      {failure: "Failed to load posts", call: withInput(posts.List)},

		"users.create":  {mutation: true, failure: "Failed to create user", call: withInput(users.Create)},
		"users.delete":  {mutation: true, failure: "Failed to delete user", call: deleted(users.Delete)},
		"users.getById": {failure: "Failed to load user", call: withInput(users.GetByID)},
		"users.list":    {failure: "Failed to load users", call: noInput(users.List)},
	}
}

// invoke runs one procedure call for either transport and records its
// outcome. A nil failure means the call succeeded.
func (h *Handlers) invoke(ctx context.Context, transport, name string, input json.RawMessage) (interface{}, *failure) {
	proc, ok := h.procedures[name]
	if !ok {
		h.metrics.RecordProcedure("unknown", transport, "not_found")
		f := h.classify(fmt.Errorf("%w: %s", errProcedureNotFound, name), "")
		return nil, &f
	}

	if proc.mutation {
		if reason := h.mw.CheckAuthor(ctx); reason != "" {
			h.metrics.RecordProcedure(name, transport, "unauthorized")
			f := h.classify(fmt.Errorf("%w: %s", models.ErrUnauthorized, reason), proc.failure)
			return nil, &f
		}
	}

	out, err := proc.call(ctx, input)
	if err != nil {
		f := h.classify(err, proc.failure, zap.String("procedure", name), zap.String("transport", transport))
		h.metrics.RecordProcedure(name, transport, f.code)
		return nil, &f
	}

	h.metrics.RecordProcedure(name, transport, "ok")
	return out, nil
}

// Procedures maps every registered procedure name to whether it is a
// mutation.
func (h *Handlers) Procedures() map[string]bool {
	names := make(map[string]bool, len(h.procedures))
	for name, p := range h.procedures {
		names[name] = p.mutation
	}
	return names
}
