// Package handler exposes universe lifecycle over HTTP. Creation is the only
// route that takes no universe scope; everything else reads the caller's
// universe from the request context the auth middleware populates.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nachlass/internal/audit"
	familymodels "nachlass/internal/family/models"
	"nachlass/internal/universe/models"
	"nachlass/internal/universe/service"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/platform/httputil"
	"nachlass/pkg/requestcontext"
)

// Service defines the universe operations the handler needs.
type Service interface {
	CreateUniverse(ctx context.Context, req service.CreateUniverseRequest) (*service.CreateUniverseResult, error)
	SignIn(ctx context.Context, email, password string) (*models.Universe, error)
	GetUniverse(ctx context.Context, universeID id.UniverseID) (*models.Universe, error)
	UpdateSettings(ctx context.Context, universeID id.UniverseID, req service.UpdateSettingsRequest) (*models.Universe, error)
}

// TokenIssuer mints the session token a freshly created universe responds
// with. The token service implements it.
type TokenIssuer interface {
	IssueSessionToken(universeID id.UniverseID, adminID id.MemberID, expiresIn time.Duration) (string, error)
}

// AuditLog reads back the universe's audit trail. The audit publisher
// implements it.
type AuditLog interface {
	List(ctx context.Context, universeID id.UniverseID) ([]audit.Event, error)
}

// Handler wires universe endpoints to the universe service.
type Handler struct {
	service  Service
	logger   *slog.Logger
	issuer   TokenIssuer
	tokenTTL time.Duration
	auditLog AuditLog
}

// Option configures a Handler.
type Option func(h *Handler)

// WithTokenIssuer makes universe creation return a ready session token.
func WithTokenIssuer(issuer TokenIssuer, ttl time.Duration) Option {
	return func(h *Handler) {
		h.issuer = issuer
		h.tokenTTL = ttl
	}
}

// WithAuditLog exposes the universe's audit trail at GET /universe/audit.
func WithAuditLog(log AuditLog) Option {
	return func(h *Handler) {
		h.auditLog = log
	}
}

// New constructs a universe handler with its dependencies.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts universe endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/universes", h.HandleCreateUniverse)
	r.Post("/sessions", h.HandleSignIn)
	r.Route("/universe", func(r chi.Router) {
		r.Get("/", h.HandleGetUniverse)
		r.Patch("/settings", h.HandleUpdateSettings)
		if h.auditLog != nil {
			r.Get("/audit", h.HandleAuditTrail)
		}
	})
}

// CreateUniverseResponse pairs the fresh universe with its admin member and,
// when a token issuer is configured, a ready session token.
type CreateUniverseResponse struct {
	Universe     *models.Universe           `json:"universe"`
	Admin        *familymodels.FamilyMember `json:"admin"`
	SessionToken string                     `json:"sessionToken,omitempty"`
}

// HandleCreateUniverse handles POST /universes requests.
func (h *Handler) HandleCreateUniverse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateUniverseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateUniverse(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.WarnContext(ctx, "create universe failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	response := CreateUniverseResponse{
		Universe: result.Universe,
		Admin:    result.Admin,
	}
	if h.issuer != nil {
		sessionToken, err := h.issuer.IssueSessionToken(result.Universe.ID, result.Admin.ID, h.tokenTTL)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to issue session token",
				"request_id", requestID,
				"universe_id", result.Universe.ID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		response.SessionToken = sessionToken
	}

	h.logger.InfoContext(ctx, "universe created",
		"request_id", requestID,
		"universe_id", result.Universe.ID,
		"admin_id", result.Admin.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, response)
}

// SignInResponse carries the re-issued session token and the universe the
// credentials belong to.
type SignInResponse struct {
	SessionToken string           `json:"sessionToken"`
	Universe     *models.Universe `json:"universe"`
}

// HandleSignIn handles POST /sessions requests. Successful sign-in re-issues
// the session token the create-universe response originally carried.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SignInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	universe, err := h.service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "sign in failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if h.issuer == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "session tokens are not configured"))
		return
	}
	sessionToken, err := h.issuer.IssueSessionToken(universe.ID, universe.AdminID, h.tokenTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token",
			"request_id", requestID,
			"universe_id", universe.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "admin signed in",
		"request_id", requestID,
		"universe_id", universe.ID,
	)

	httputil.WriteJSON(w, http.StatusOK, SignInResponse{
		SessionToken: sessionToken,
		Universe:     universe,
	})
}

// HandleGetUniverse handles GET /universe requests.
func (h *Handler) HandleGetUniverse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	universe, err := h.service.GetUniverse(ctx, universeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, universe)
}

// HandleUpdateSettings handles PATCH /universe/settings requests.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateSettingsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	universe, err := h.service.UpdateSettings(ctx, universeID, req.ToServiceRequest())
	if err != nil {
		h.logger.WarnContext(ctx, "update settings failed",
			"request_id", requestID,
			"universe_id", universeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "settings updated",
		"request_id", requestID,
		"universe_id", universeID,
	)

	httputil.WriteJSON(w, http.StatusOK, universe)
}

// AuditEventResponse is the wire form of one audit trail entry.
type AuditEventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	MemberID  string    `json:"memberId,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}

// AuditTrailResponse wraps the event list.
type AuditTrailResponse struct {
	Events []AuditEventResponse `json:"events"`
}

// HandleAuditTrail handles GET /universe/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	events, err := h.auditLog.List(ctx, universeID)
	if err != nil {
		h.logger.WarnContext(ctx, "audit trail lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"universe_id", universeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	response := AuditTrailResponse{Events: make([]AuditEventResponse, 0, len(events))}
	for _, event := range events {
		entry := AuditEventResponse{
			Timestamp: event.Timestamp,
			Actor:     event.Actor,
			Action:    event.Action,
			Detail:    event.Detail,
		}
		if !event.MemberID.IsNil() {
			entry.MemberID = event.MemberID.String()
		}
		response.Events = append(response.Events, entry)
	}
	httputil.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) universeFromContext(w http.ResponseWriter, ctx context.Context) (id.UniverseID, bool) {
	universeID := requestcontext.UniverseID(ctx)
	if universeID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "universe scope is required"))
		return id.UniverseID{}, false
	}
	return universeID, true
}
