package advisor

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"cashcraft/internal/core"
	"cashcraft/internal/log"
)

// EventType tags the stages of a streamed advisor reply.
type EventType string

const (
	// EventTyping tells the UI to show the typing indicator.
	EventTyping EventType = "typing"
	// EventContent carries the full reply rendered so far.
	EventContent EventType = "content"
	// EventDone marks the end of the reply.
	EventDone EventType = "done"
)

// Event is one frame of a streamed reply. HTML is only set for content
// events.
type Event struct {
	Type EventType
	HTML template.HTML
}

// ErrBusy is returned when a reply is already being streamed. The
// advisor answers one question at a time.
var ErrBusy = errors.New("advisor is busy")

// Canned replies, shown in the chat like any model output.
const (
	unavailableReply = "AI Advisor is not available. Please make sure you have added your API key."
	fallbackReply    = "I'm not sure how to respond to that. Could you ask another way?"
	errorReply       = "Sorry, I encountered an error while processing your request. Please try again."
)

const personaInstruction = `You are "Cash Craft Smart Advisor", a helpful and friendly financial assistant.
Analyze the user's financial data provided below. Your advice should be encouraging, clear, and actionable.
Focus on identifying spending patterns based on categories.
Do not mention that you are an AI. Respond in Markdown format.`

// Advisor runs chat sessions against a Client. A nil client is valid:
// every question is answered with the unavailable notice.
type Advisor struct {
	client Client
	logger *log.Logger

	busy sync.Mutex
}

func New(client Client, logger *log.Logger) *Advisor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Advisor{
		client: client,
		logger: logger.WithComponent(log.ComponentAdvisor),
	}
}

// Available reports whether a model client is configured.
func (a *Advisor) Available() bool {
	return a.client != nil
}

// Ask streams a reply to prompt, calling emit for each event in order.
// A blank prompt emits nothing. Model failures are not returned as
// errors: they surface in the chat as an apologetic reply, matching how
// the page treats them. The returned error is non-nil only when emit
// fails (the client went away) or another reply is in flight.
func (a *Advisor) Ask(ctx context.Context, ledger core.Ledger, prompt string, emit func(Event) error) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}

	if !a.busy.TryLock() {
		return ErrBusy
	}
	defer a.busy.Unlock()

	if err := emit(Event{Type: EventTyping}); err != nil {
		return err
	}

	if a.client == nil {
		if err := emit(Event{Type: EventContent, HTML: FormatMarkdown(unavailableReply)}); err != nil {
			return err
		}
		return emit(Event{Type: EventDone})
	}

	stream, err := a.client.StreamChat(ctx, ChatRequest{
		SystemPrompt: buildSystemPrompt(ledger),
		UserPrompt:   prompt,
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to open advisor stream",
			log.FieldOperation, log.OpStream,
			log.FieldError, err.Error())
		if err := emit(Event{Type: EventContent, HTML: FormatMarkdown(errorReply)}); err != nil {
			return err
		}
		return emit(Event{Type: EventDone})
	}
	defer stream.Close()

	var full strings.Builder
	chunks := 0
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			a.logger.ErrorContext(ctx, "Advisor stream failed mid-reply",
				log.FieldOperation, log.OpStream,
				log.FieldChunks, chunks,
				log.FieldError, err.Error())
			if err := emit(Event{Type: EventContent, HTML: FormatMarkdown(errorReply)}); err != nil {
				return err
			}
			return emit(Event{Type: EventDone})
		}
		if chunk == "" {
			continue
		}
		chunks++
		full.WriteString(chunk)
		if err := emit(Event{Type: EventContent, HTML: FormatMarkdown(full.String())}); err != nil {
			return err
		}
	}

	if chunks == 0 {
		if err := emit(Event{Type: EventContent, HTML: FormatMarkdown(fallbackReply)}); err != nil {
			return err
		}
	}
	a.logger.DebugContext(ctx, "Advisor reply complete",
		log.FieldOperation, log.OpStream,
		log.FieldChunks, chunks)
	return emit(Event{Type: EventDone})
}

// buildSystemPrompt embeds the ledger into the persona instruction so the
// model sees the same numbers the page shows.
func buildSystemPrompt(ledger core.Ledger) string {
	var b strings.Builder
	b.WriteString("Current Monthly Budget: ")
	b.WriteString(core.FormatRupees(ledger.Budget.Cents))
	b.WriteString("\nTotal Expenses: ")
	b.WriteString(core.FormatRupees(core.TotalExpenses(ledger).Cents))
	b.WriteString("\nTransactions:\n")
	if len(ledger.Transactions) == 0 {
		b.WriteString("No transactions yet.")
	} else {
		for i, tx := range ledger.Transactions {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "- [%s] %s: %s", tx.Category, tx.Description, core.FormatRupees(tx.Amount.Cents))
		}
	}

	return personaInstruction + "\n---\nFINANCIAL DATA:\n" + b.String() + "\n---"
}
