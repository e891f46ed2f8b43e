package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/autoplan/internal/webhook"
	"github.com/rs/zerolog/log"
)

// maxWebhookBody caps delivery payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// handlerTimeout bounds the asynchronous processing of one delivery.
const handlerTimeout = 60 * time.Second

// handleWebhook verifies the delivery signature, acknowledges immediately,
// and processes the event off the request goroutine. The sender only ever
// sees whether the signature checked out.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable body"})
		return
	}

	signature := r.Header.Get(webhook.SignatureHeader)
	if err := webhook.Verify([]byte(s.cfg.WebhookSecret), body, signature); err != nil {
		writeError(w, r, err)
		return
	}

	kind := r.Header.Get(webhook.EventHeader)
	writeJSON(w, http.StatusOK, map[string]any{"received": true})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		if err := s.deps.Events.HandleEvent(ctx, kind, body); err != nil {
			log.Error().Err(err).Str("event", kind).Msg("webhook processing failed")
		}
	}()
}

// handleBillingWebhook is the same respond-then-process flow for the
// billing provider, signed with its own secret.
func (s *Server) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unreadable body"})
		return
	}

	signature := r.Header.Get(webhook.SignatureHeader)
	if err := webhook.Verify([]byte(s.cfg.BillingWebhookSecret), body, signature); err != nil {
		writeError(w, r, err)
		return
	}

	var ev webhook.BillingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed event"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"received": true})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		if err := s.deps.Installations.HandleBillingEvent(ctx, &ev); err != nil {
			log.Error().Err(err).Str("type", ev.Type).Msg("billing event processing failed")
		}
	}()
}
