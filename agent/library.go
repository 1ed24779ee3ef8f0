package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library dispatches a function call to its implementation.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is anything an expert can be given as a tool.
type Function interface {
	// Declare this function
	Declaration() *genai.FunctionDeclaration
	// Call this function
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary builds the dispatcher for a set of functions.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			d := f.Declaration()
			if d.Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return &genai.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"error": fmt.Sprintf("unknown function %s", call.Name),
			},
		}
	}
}

// NewDeclaration collects the declarations of a set of functions.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// Func implements a simple Function.
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}
