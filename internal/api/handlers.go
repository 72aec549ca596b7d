/**
 * @description
 * This file contains the HTTP handler for the inbound SMS webhook. The SMS
 * gateway posts each received message here as a urlencoded form with the
 * Twilio-style `Body` and `From` fields. The handler authenticates the
 * caller, hands the message to the ledger engine, and echoes the rendered
 * reply in the response so the gateway can answer synchronously if it wants
 * to; the authoritative reply still goes out through the notification queue.
 *
 * @dependencies
 * - encoding/json, net/http, strings: Standard Go libraries.
 * - internal/domain: Outcome types and reply rendering.
 */

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/buzzbank/ledger-service/internal/domain"
)

// webhookAPIKeyHeader carries the shared secret the SMS gateway is configured
// to send. Internal endpoints are authenticated this way across our services.
const webhookAPIKeyHeader = "X-Webhook-Key"

// CommandService is the slice of the ledger engine the handlers need.
type CommandService interface {
	HandleCommand(ctx context.Context, fromAddress, text string) domain.Outcome
}

// SMSHandlers holds the application service that handlers will use.
type SMSHandlers struct {
	service       CommandService
	webhookAPIKey string
}

// NewSMSHandlers creates a new instance of SMSHandlers.
func NewSMSHandlers(service CommandService, webhookAPIKey string) *SMSHandlers {
	return &SMSHandlers{service: service, webhookAPIKey: webhookAPIKey}
}

// smsReplyResponse mirrors the reply the initiating party receives, plus the
// recipient credit notification when a transfer succeeded.
type smsReplyResponse struct {
	Message          string `json:"message"`
	RecipientMessage string `json:"recipient_message,omitempty"`
}

// InboundSMSHandler handles one received message: parse the form, apply the
// command, map the outcome onto an HTTP status.
func (h *SMSHandlers) InboundSMSHandler(w http.ResponseWriter, r *http.Request) {
	if h.webhookAPIKey != "" && r.Header.Get(webhookAPIKeyHeader) != h.webhookAPIKey {
		h.writeError(w, http.StatusUnauthorized, "invalid webhook key")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	body := r.PostFormValue("Body")
	if from == "" {
		h.writeError(w, http.StatusBadRequest, "missing From field")
		return
	}

	outcome := h.service.HandleCommand(r.Context(), from, body)

	resp := smsReplyResponse{
		Message:          outcome.ReplyMessage(),
		RecipientMessage: outcome.RecipientMessage(),
	}
	h.writeJSON(w, statusForOutcome(outcome), resp)
}

// statusForOutcome maps the outcome onto the webhook contract: successful
// commands answer 200, command-level failures 400, throttled senders 429,
// and infrastructure failures 500.
func statusForOutcome(outcome domain.Outcome) int {
	if outcome.Type != domain.OutcomeFailed {
		return http.StatusOK
	}
	switch outcome.Reason {
	case domain.ReasonStoreUnavailable:
		return http.StatusInternalServerError
	case domain.ReasonRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

func (h *SMSHandlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *SMSHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
