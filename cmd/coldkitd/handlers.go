package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/coldkit/coldkit/pkg/billing"
	"github.com/coldkit/coldkit/pkg/compose"
	"github.com/coldkit/coldkit/pkg/entitlement"
	"github.com/coldkit/coldkit/pkg/httpserver"
	"github.com/coldkit/coldkit/pkg/profile"
)

const maxDocumentSize = 10 << 20

type api struct {
	log       *slog.Logger
	ents      entitlement.Service
	billing   billing.Provider
	profiles  profile.Service
	composer  compose.Composer
	readiness []func(context.Context) error
}

func (a *api) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(a.log, a.readiness...))
	r.Post("/webhooks/billing", a.handleBillingWebhook)

	// Account routes expect the authenticating proxy to pass the
	// account ID in the X-Account-ID header.
	r.Group(func(r chi.Router) {
		r.Use(a.requireAccount)

		r.Get("/entitlement", a.handleGetEntitlement)
		r.Post("/billing/checkout", a.handleCheckout)
		r.Post("/compose", a.handleCompose)

		r.Get("/profile", a.handleGetProfile)
		r.Put("/profile", a.handleSaveProfile)
		r.Get("/onboarding", a.handleOnboarding)

		r.Get("/documents", a.handleListDocuments)
		r.Post("/documents", a.handleUploadDocument)
		r.Delete("/documents/{id}", a.handleDeleteDocument)
	})

	return r
}

func (a *api) requireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, err := uuid.Parse(r.Header.Get("X-Account-ID"))
		if err != nil || accountID == uuid.Nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid account ID")
			return
		}

		ctx := entitlement.SetAccountIDToContext(r.Context(), accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountID(r *http.Request) uuid.UUID {
	id, _ := entitlement.GetAccountIDFromContext(r.Context())
	return id
}

func (a *api) handleGetEntitlement(w http.ResponseWriter, r *http.Request) {
	ent, err := a.ents.EnsureEntitlement(r.Context(), accountID(r))
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"plan":              ent.Plan,
		"tokens":            ent.Tokens,
		"monthly_allowance": ent.MonthlyAllowance,
		"period_end":        ent.PeriodEnd,
	})
}

func (a *api) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := entitlement.ParsePlan(req.Plan)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	url, err := a.billing.CheckoutURL(r.Context(), plan, accountID(r))
	if err != nil {
		if errors.Is(err, billing.ErrPlanNotPurchasable) {
			writeError(w, http.StatusBadRequest, "plan is not purchasable")
			return
		}
		a.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (a *api) handleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	signature := r.Header.Get("X-Signature")
	if signature == "" {
		signature = r.Header.Get("Paddle-Signature")
	}

	event, err := a.billing.ParseWebhook(r.Context(), payload, signature)
	if err != nil {
		// Verification failures get a 4xx so the provider does not
		// retry a request that can never succeed.
		a.log.WarnContext(r.Context(), "rejected billing webhook", slog.Any("error", err))
		writeError(w, http.StatusBadRequest, "invalid webhook")
		return
	}

	if err := a.ents.ApplySubscriptionEvent(r.Context(), *event); err != nil {
		a.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt            string `json:"prompt"`
		AttachmentContext string `json:"attachment_context"`
		UserContext       string `json:"user_context"`
		Template          string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userContext := req.UserContext
	if userContext == "" {
		if p, err := a.profiles.GetProfile(r.Context(), accountID(r)); err == nil {
			userContext = p.Summary
			if userContext == "" {
				userContext = p.AboutText
			}
		}
	}

	email, err := a.composer.Compose(r.Context(), accountID(r), compose.EmailRequest{
		Prompt:            req.Prompt,
		AttachmentContext: req.AttachmentContext,
		UserContext:       userContext,
		Template:          req.Template,
	})
	if err != nil {
		switch {
		case errors.Is(err, compose.ErrOutOfTokens):
			writeError(w, http.StatusPaymentRequired, "no generation tokens available")
		case errors.Is(err, compose.ErrEmptyPrompt):
			writeError(w, http.StatusBadRequest, "prompt cannot be empty")
		default:
			a.serverError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"subject":    email.Subject,
		"body":       email.Body,
		"full_email": email.FullEmail,
	})
}

func (a *api) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := a.profiles.GetProfile(r.Context(), accountID(r))
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		a.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"about_text": p.AboutText,
		"summary":    p.Summary,
	})
}

func (a *api) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AboutText string `json:"about_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := a.profiles.SaveAbout(r.Context(), accountID(r), req.AboutText)
	if err != nil {
		if errors.Is(err, profile.ErrEmptyAboutText) {
			writeError(w, http.StatusBadRequest, "about text cannot be empty")
			return
		}
		a.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"about_text": p.AboutText,
		"summary":    p.Summary,
	})
}

func (a *api) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"needed": a.profiles.NeedsOnboarding(r.Context(), accountID(r)),
	})
}

func (a *api) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := a.profiles.ListDocuments(r.Context(), accountID(r))
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	type docResponse struct {
		ID          uuid.UUID `json:"id"`
		Name        string    `json:"name"`
		ContentType string    `json:"content_type"`
		SizeBytes   int64     `json:"size_bytes"`
	}
	out := make([]docResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, docResponse{
			ID:          d.ID,
			Name:        d.Name,
			ContentType: d.ContentType,
			SizeBytes:   d.SizeBytes,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (a *api) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no document provided")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := a.profiles.AddDocument(r.Context(), accountID(r),
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		if errors.Is(err, profile.ErrEmptyDocument) {
			writeError(w, http.StatusBadRequest, "document is empty")
			return
		}
		a.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":   doc.ID,
		"name": doc.Name,
	})
}

func (a *api) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	if err := a.profiles.DeleteDocument(r.Context(), accountID(r), docID); err != nil {
		if errors.Is(err, profile.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		a.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *api) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.log.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path), slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
