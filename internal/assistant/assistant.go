// Package assistant runs the scheduling conversation against Gemini,
// dispatching the model's function calls to the ledger and agenda tools.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-2.0-flash"

// maxToolRounds bounds the tool-call loop for a single reply, so a model
// that keeps requesting tools cannot spin forever.
const maxToolRounds = 8

// Assistant owns the Gemini client and the per-conversation chat sessions.
type Assistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
	tools  *Toolbox

	mu       sync.Mutex
	sessions map[string]*genai.ChatSession
}

// New constructs the Gemini client and configures the model with the
// workshop instruction and the tool declarations.
func New(ctx context.Context, apiKey string, tools *Toolbox) (*Assistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.Tools = []*genai.Tool{{FunctionDeclarations: Declarations()}}

	return &Assistant{
		client:   client,
		model:    model,
		tools:    tools,
		sessions: make(map[string]*genai.ChatSession),
	}, nil
}

// Close releases the underlying client.
func (a *Assistant) Close() error {
	return a.client.Close()
}

func (a *Assistant) session(id string) *genai.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions[id]; ok {
		return s
	}
	s := a.model.StartChat()
	a.sessions[id] = s
	return s
}

// Send delivers one user message into the conversation and returns the
// model's final text reply, after resolving any tool calls it makes along
// the way.
func (a *Assistant) Send(ctx context.Context, sessionID, message string) (string, error) {
	sess := a.session(sessionID)

	resp, err := sess.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.tools.Dispatch(ctx, call.Name, call.Args)
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: result.Response(),
			})
		}

		resp, err = sess.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("send tool results: %w", err)
		}
	}

	return textOf(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if call, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, call)
			}
		}
	}
	return calls
}

func textOf(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
