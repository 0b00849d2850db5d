// Package functions exposes the named server-side operations callable
// through POST /functions/{name}.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Function handles one named invocation. input is the raw JSON body and may be empty.
type Function func(ctx context.Context, input json.RawMessage) (any, error)

// Registry maps function names to handlers
type Registry struct {
	mu        sync.RWMutex
	functions map[string]Function
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewRegistry creates an empty Registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	// request structs carry gin's binding tags
	v.SetTagName("binding")
	return &Registry{
		functions: make(map[string]Function),
		validate:  v,
		logger:    logger,
	}
}

// Register adds fn under name, replacing any previous registration
func (r *Registry) Register(name string, fn Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[name] = fn
}

// Names returns the registered function names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the function registered under name
func (r *Registry) Invoke(ctx context.Context, name string, input json.RawMessage) (any, error) {
	r.mu.RLock()
	fn, ok := r.functions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Unknown function: "+name)
	}

	result, err := fn(ctx, input)
	if err != nil {
		r.logger.Debug("function failed", zap.String("function", name), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("function invoked", zap.String("function", name))
	return result, nil
}

// decode unmarshals input into dst and validates it. Empty input leaves
// dst at its zero value before validation.
func (r *Registry) decode(input json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return shared.NewDomainError("INVALID_INPUT", "Invalid request body: "+err.Error())
		}
	}
	if err := r.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
			return shared.NewDomainError("INVALID_INPUT", "Invalid fields: "+strings.Join(fields, ", "))
		}
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return nil
}
