package http

import (
	"errors"
	"fmt"
	"net/http"

	"cashcraft/internal/advisor"
	"cashcraft/internal/log"
)

// handleAdvisor streams a chat reply as server-sent events. The page
// posts the prompt as a form and reads the body incrementally; each
// content frame carries the full reply rendered so far.
func (s *Server) handleAdvisor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFragment(w, http.StatusBadRequest, `<div class="error">Invalid request format</div>`)
		return
	}
	prompt := sanitizeInput(r.Form.Get("prompt"))
	if prompt == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.ErrorContext(r.Context(), "Response writer does not support streaming")
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.metrics.advisorSessions.Add(1)

	emit := func(ev advisor.Event) error {
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.HTML); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := s.advisor.Ask(r.Context(), s.ledger.Snapshot(), prompt, emit)
	switch {
	case err == nil:
	case errors.Is(err, advisor.ErrBusy):
		// Headers are already sent; close out with a busy frame.
		_ = emit(advisor.Event{Type: advisor.EventContent, HTML: "I'm still answering your previous question. One moment."})
		_ = emit(advisor.Event{Type: advisor.EventDone})
	default:
		// The client went away mid-stream.
		s.logger.DebugContext(r.Context(), "Advisor stream ended early",
			log.FieldOperation, log.OpStream, log.FieldError, err.Error())
	}
}
