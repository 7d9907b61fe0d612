package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
)

// replier is what the conversational surface needs from the assistant.
type replier interface {
	Send(ctx context.Context, sessionID, message string) (string, error)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// chatHandler serves the conversational endpoint. A GET returns the CSRF
// token a client must echo on POST; a POST carries one user message and
// returns the assistant's reply.
func chatHandler(bot replier) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}
		if req.SessionID == "" {
			req.SessionID = uuid.NewString()
		}

		reply, err := bot.Send(r.Context(), req.SessionID, req.Message)
		if err != nil {
			logger.Error("Assistant request failed", "sessionID", req.SessionID, "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "the assistant is unavailable right now"})
			return
		}

		writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: reply})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// runConsole drives a single conversation over stdin/stdout, for running
// the assistant without the HTTP surface.
func runConsole(bot replier) {
	sessionID := uuid.NewString()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("==================================================")
	fmt.Println("  AutoAgenda - Maintenance Scheduling Assistant")
	fmt.Println("==================================================")
	fmt.Println()
	fmt.Println("Hello! How can I help with your vehicle's booking or service history today?")
	fmt.Println(`Examples: "What is the history for plate ABC1234?", "Book an oil change for tomorrow".`)
	fmt.Println(`Type "quit" at any time to leave.`)

	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") || strings.EqualFold(input, "sair") {
			fmt.Println("\nAssistant: Understood. Goodbye!")
			return
		}

		reply, err := bot.Send(context.Background(), sessionID, input)
		if err != nil {
			fmt.Printf("\nAssistant unavailable: %v\n", err)
			continue
		}
		fmt.Printf("\nAssistant: %s\n", reply)
	}
}
