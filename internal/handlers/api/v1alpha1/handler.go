// Package v1alpha1 serves the character service as a JSON API
package v1alpha1

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/engine"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/metrics"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/services/character"
)

// Request conventions
const (
	PlayerHeader = "X-Player-ID"
	LocaleParam  = "locale"

	yamlContentType = "application/yaml"
	pdfContentType  = "application/pdf"
	maxBodyBytes    = 1 << 20
)

type contextKey int

const (
	draftKey contextKey = iota
	characterKey
)

// Character origins counted by the metrics
const (
	originFinalized = "finalized"
	originImported  = "imported"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	CharacterService character.Service
	Logger           *slog.Logger     // Optional
	Metrics          *metrics.Metrics // Optional
	// RequestTimeout defaults to 30s
	RequestTimeout time.Duration
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c == nil {
		vb.RequiredField("config")
		return vb.Build()
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.RequestTimeout < 0 {
		vb.Field("RequestTimeout", "must not be negative")
	}
	return vb.Build()
}

// Handler serves the character service over HTTP
type Handler struct {
	characterService character.Service
	logger           *slog.Logger
	metrics          *metrics.Metrics
	timeout          time.Duration
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Handler{
		characterService: cfg.CharacterService,
		logger:           logger,
		metrics:          cfg.Metrics,
		timeout:          timeout,
	}, nil
}

// Register mounts the API routes under /v1alpha1
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1alpha1", func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(h.instrument)
		r.Use(middleware.Timeout(h.timeout))

		r.Get("/occupations", h.handleListOccupations)
		r.Get("/skills", h.handleListSkills)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.handleCreateDraft)
			r.Get("/current", h.handleGetPlayerDraft)
			r.Route("/{draftID}", func(r chi.Router) {
				r.Use(h.draftOwner)
				r.Get("/", h.handleGetDraft)
				r.Delete("/", h.handleDeleteDraft)
				r.Post("/commands", h.handleApplyCommand)
				r.Get("/validation", h.handleValidateDraft)
				r.Post("/finalize", h.handleFinalizeDraft)
			})
		})

		r.Route("/characters", func(r chi.Router) {
			r.Get("/", h.handleListCharacters)
			r.Post("/import", h.handleImportCharacter)
			r.Route("/{characterID}", func(r chi.Router) {
				r.Use(h.characterOwner)
				r.Get("/", h.handleGetCharacter)
				r.Patch("/", h.handleUpdateCharacter)
				r.Delete("/", h.handleDeleteCharacter)
				r.Get("/export", h.handleExportCharacter)
				r.Get("/sheet", h.handleRenderSheet)
			})
		})
	})
}

// Draft handlers

func (h *Handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.requirePlayer(w, r)
	if !ok {
		return
	}

	var req createDraftRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.characterService.CreateDraft(r.Context(), &character.CreateDraftInput{
		PlayerID: playerID,
		Name:     req.Name,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, out.Draft)
}

func (h *Handler) handleGetPlayerDraft(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.requirePlayer(w, r)
	if !ok {
		return
	}

	out, err := h.characterService.GetPlayerDraft(r.Context(), &character.GetPlayerDraftInput{PlayerID: playerID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out.Draft)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, r.Context().Value(draftKey))
}

func (h *Handler) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.DeleteDraft(r.Context(), &character.DeleteDraftInput{
		DraftID: chi.URLParam(r, "draftID"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: out.Message})
}

func (h *Handler) handleApplyCommand(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var env engine.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.writeError(w, r, errors.WrapWithCode(err, errors.CodeInvalidArgument, "request body is not valid JSON"))
		return
	}
	cmd, err := engine.DecodeCommand(env.Type, func(target any) error {
		return json.Unmarshal(body, target)
	})
	if err != nil {
		h.metrics.IncrementCommand(string(env.Type), string(errors.GetCode(err)))
		h.writeError(w, r, err)
		return
	}

	out, err := h.characterService.ApplyCommand(r.Context(), &character.ApplyCommandInput{
		DraftID: chi.URLParam(r, "draftID"),
		Command: cmd,
	})
	if err != nil {
		h.metrics.IncrementCommand(string(env.Type), string(errors.GetCode(err)))
		h.writeError(w, r, err)
		return
	}

	h.metrics.IncrementCommand(string(env.Type), "applied")
	h.writeJSON(w, r, http.StatusOK, applyCommandResponse{
		Draft:    out.Draft,
		Warnings: toWarnings(out.Warnings),
	})
}

func (h *Handler) handleValidateDraft(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ValidateDraft(r.Context(), &character.ValidateDraftInput{
		DraftID: chi.URLParam(r, "draftID"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, validationResponse{
		IsComplete:   out.IsComplete,
		IsValid:      out.IsValid,
		Errors:       toErrors(out.Errors),
		Warnings:     toWarnings(out.Warnings),
		MissingSteps: out.MissingSteps,
	})
}

func (h *Handler) handleFinalizeDraft(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.FinalizeDraft(r.Context(), &character.FinalizeDraftInput{
		DraftID: chi.URLParam(r, "draftID"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.IncrementCharacter(originFinalized)
	h.writeJSON(w, r, http.StatusCreated, finalizeResponse{
		Character:    out.Character,
		DraftDeleted: out.DraftDeleted,
	})
}

// Character handlers

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.requirePlayer(w, r)
	if !ok {
		return
	}

	out, err := h.characterService.ListCharacters(r.Context(), &character.ListCharactersInput{PlayerID: playerID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, listCharactersResponse{Characters: out.Characters})
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, r.Context().Value(characterKey))
}

func (h *Handler) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.characterService.UpdateCharacter(r.Context(), &character.UpdateCharacterInput{
		CharacterID: chi.URLParam(r, "characterID"),
		Patch:       req.toPatch(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out.Character)
}

func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.DeleteCharacter(r.Context(), &character.DeleteCharacterInput{
		CharacterID: chi.URLParam(r, "characterID"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: out.Message})
}

func (h *Handler) handleExportCharacter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "characterID")
	out, err := h.characterService.ExportCharacter(r.Context(), &character.ExportCharacterInput{CharacterID: id})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.yaml"`)
	h.writeBytes(w, r, yamlContentType, out.Data)
}

func (h *Handler) handleImportCharacter(w http.ResponseWriter, r *http.Request) {
	playerID, ok := h.requirePlayer(w, r)
	if !ok {
		return
	}
	body, err := h.readBody(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.characterService.ImportCharacter(r.Context(), &character.ImportCharacterInput{
		PlayerID: playerID,
		Data:     body,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.metrics.IncrementCharacter(originImported)
	h.metrics.IncrementImport(strconv.Itoa(out.SourceVersion))
	h.writeJSON(w, r, http.StatusCreated, importResponse{
		Character:     out.Character,
		SourceVersion: out.SourceVersion,
	})
}

func (h *Handler) handleRenderSheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "characterID")
	out, err := h.characterService.RenderCharacterSheet(r.Context(), &character.RenderCharacterSheetInput{
		CharacterID: id,
		Locale:      requestLocale(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `inline; filename="`+id+`.pdf"`)
	h.writeBytes(w, r, pdfContentType, out.Data)
}

// Catalog handlers

func (h *Handler) handleListOccupations(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ListOccupations(r.Context(), &character.ListOccupationsInput{
		Locale: requestLocale(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, listOccupationsResponse{Occupations: toOccupations(out.Occupations)})
}

func (h *Handler) handleListSkills(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ListSkills(r.Context(), &character.ListSkillsInput{
		Locale: requestLocale(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, listSkillsResponse{Skills: toSkills(out.Skills)})
}

// Helpers

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		h.metrics.ObserveRequest(route, r.Method, strconv.Itoa(status), elapsed)
		h.logger.DebugContext(r.Context(), "Request served",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
		)
	})
}

// draftOwner loads the draft named in the path and rejects requests from
// any player but its owner
func (h *Handler) draftOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := h.requirePlayer(w, r)
		if !ok {
			return
		}

		out, err := h.characterService.GetDraft(r.Context(), &character.GetDraftInput{
			DraftID: chi.URLParam(r, "draftID"),
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if err := checkOwner(out.Draft.PlayerID, playerID, "draft", out.Draft.ID); err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), draftKey, out.Draft)))
	})
}

// characterOwner loads the character named in the path and rejects
// requests from any player but its owner
func (h *Handler) characterOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := h.requirePlayer(w, r)
		if !ok {
			return
		}

		out, err := h.characterService.GetCharacter(r.Context(), &character.GetCharacterInput{
			CharacterID: chi.URLParam(r, "characterID"),
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if err := checkOwner(out.Character.PlayerID, playerID, "character", out.Character.ID); err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), characterKey, out.Character)))
	})
}

func checkOwner(owner, playerID, kind, id string) error {
	if owner != playerID {
		return errors.PermissionDeniedf("%s %s belongs to another player", kind, id)
	}
	return nil
}

func (h *Handler) requirePlayer(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID := r.Header.Get(PlayerHeader)
	if playerID == "" {
		h.writeError(w, r, errors.NewValidationBuilder().RequiredField(PlayerHeader).Build())
		return "", false
	}
	return playerID, true
}

func (h *Handler) readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return nil, errors.ResourceExhaustedf("request body exceeds %d bytes", maxBodyBytes)
	}
	return body, nil
}

// decodeJSON fills target from the request body. An empty body leaves
// target unchanged.
func (h *Handler) decodeJSON(r *http.Request, target any) error {
	body, err := h.readBody(r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "request body is not valid JSON")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write response",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
}

func (h *Handler) writeBytes(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write response",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	resp := errorResponse{
		Code:    string(code),
		Message: err.Error(),
		Fields:  errors.FieldErrors(err),
	}
	if steps, ok := errors.GetMeta(err)["missing_steps"]; ok {
		resp.Details = map[string]any{"missingSteps": steps}
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		resp.Message = "internal error"
	}

	h.writeJSON(w, r, status, resp)
}

// requestLocale prefers the locale query parameter over Accept-Language
func requestLocale(r *http.Request) string {
	if locale := r.URL.Query().Get(LocaleParam); locale != "" {
		return locale
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
