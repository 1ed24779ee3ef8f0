// Package agent implements the interactive AI assistant layered on top of
// the rebalancing engine. It never decides an allocation itself: the
// engine's output is handed to the experts as grounding material.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
}

// New creates a new Agent around the given experts. It takes an io.Writer
// for the agent's output (e.g., os.Stdout) and an io.Reader for user
// input (e.g., os.Stdin). The facilitator orchestrating the experts is
// created internally.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens the Gemini chats for the facilitator and every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "rebal> "

// Run starts the interactive REPL session for the agent. Initial prompts,
// if any, are played before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to the rebal assistant. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, content.Parts[0].Text)
	}
}
