// Package handler exposes the family service over HTTP. All routes are
// universe-scoped: the auth middleware resolves the caller's universe into the
// request context and handlers never accept a universe id from the client.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	"nachlass/internal/family/service"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/platform/httputil"
	"nachlass/pkg/requestcontext"
)

// Service defines the family operations the handler needs.
type Service interface {
	AddMember(ctx context.Context, universeID id.UniverseID, req service.AddMemberRequest) (*models.FamilyMember, error)
	UpdateMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID, req service.UpdateMemberRequest) (*models.FamilyMember, error)
	DeleteMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) error
	GetMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error)
	ListMembers(ctx context.Context, universeID id.UniverseID) ([]*models.FamilyMember, error)
	AvailableRelationships(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) ([]models.Relationship, error)
	Groups(ctx context.Context, universeID id.UniverseID, order []rules.Section) ([]rules.Group, error)
	FinalizeSetup(ctx context.Context, universeID id.UniverseID) error
	TaxClassFor(ctx context.Context, universeID id.UniverseID, heirID id.MemberID, previousOwner *id.MemberID) (rules.TaxClass, error)
}

// Handler wires family endpoints to the family service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a family handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts family endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/family", func(r chi.Router) {
		r.Get("/members", h.HandleListMembers)
		r.Post("/members", h.HandleAddMember)
		r.Get("/members/{memberID}", h.HandleGetMember)
		r.Patch("/members/{memberID}", h.HandleUpdateMember)
		r.Delete("/members/{memberID}", h.HandleDeleteMember)
		r.Get("/members/{memberID}/relationships", h.HandleAvailableRelationships)
		r.Get("/members/{memberID}/tax-class", h.HandleTaxClass)
		r.Get("/groups", h.HandleGroups)
		r.Post("/finalize", h.HandleFinalizeSetup)
	})
}

// HandleAddMember handles POST /family/members requests.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddMemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	member, err := h.service.AddMember(ctx, universeID, req.ToServiceRequest())
	if err != nil {
		h.logger.WarnContext(ctx, "add member failed",
			"request_id", requestID,
			"universe_id", universeID,
			"relationship", req.Relationship,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "member added",
		"request_id", requestID,
		"universe_id", universeID,
		"member_id", member.ID,
		"relationship", member.Relationship,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, member)
}

// HandleGetMember handles GET /family/members/{memberID} requests.
func (h *Handler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	memberID, ok := h.memberIDFromPath(w, r)
	if !ok {
		return
	}

	member, err := h.service.GetMember(ctx, universeID, memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, member)
}

// HandleListMembers handles GET /family/members requests.
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(ctx, universeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MembersResponse{Members: members})
}

// HandleUpdateMember handles PATCH /family/members/{memberID} requests.
func (h *Handler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	memberID, ok := h.memberIDFromPath(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateMemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	member, err := h.service.UpdateMember(ctx, universeID, memberID, req.ToServiceRequest())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "member updated",
		"request_id", requestID,
		"universe_id", universeID,
		"member_id", memberID,
	)
	httputil.WriteJSON(w, http.StatusOK, member)
}

// HandleDeleteMember handles DELETE /family/members/{memberID} requests.
func (h *Handler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	memberID, ok := h.memberIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMember(ctx, universeID, memberID); err != nil {
		h.logger.WarnContext(ctx, "delete member failed",
			"request_id", requestID,
			"universe_id", universeID,
			"member_id", memberID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "member deleted",
		"request_id", requestID,
		"universe_id", universeID,
		"member_id", memberID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAvailableRelationships handles GET /family/members/{memberID}/relationships.
func (h *Handler) HandleAvailableRelationships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	memberID, ok := h.memberIDFromPath(w, r)
	if !ok {
		return
	}

	relationships, err := h.service.AvailableRelationships(ctx, universeID, memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RelationshipsResponse{Relationships: relationships})
}

// HandleGroups handles GET /family/groups requests. An optional order query
// parameter (comma-separated section names) overrides the default sequence.
func (h *Handler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	order, err := parseSectionOrder(r.URL.Query().Get("order"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	groups, err := h.service.Groups(ctx, universeID, order)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GroupsResponse{Groups: groups})
}

// HandleFinalizeSetup handles POST /family/finalize requests.
func (h *Handler) HandleFinalizeSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	if err := h.service.FinalizeSetup(ctx, universeID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "family setup finalized",
		"request_id", requestID,
		"universe_id", universeID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleTaxClass handles GET /family/members/{memberID}/tax-class requests.
// An optional previousOwner query parameter selects the indirect path.
func (h *Handler) HandleTaxClass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	memberID, ok := h.memberIDFromPath(w, r)
	if !ok {
		return
	}

	var previousOwner *id.MemberID
	if raw := r.URL.Query().Get("previousOwner"); raw != "" {
		ownerID, err := id.ParseMemberID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "previousOwner must be a valid member id"))
			return
		}
		previousOwner = &ownerID
	}

	class, err := h.service.TaxClassFor(ctx, universeID, memberID, previousOwner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TaxClassResponse{TaxClass: int(class)})
}

func (h *Handler) universeFromContext(w http.ResponseWriter, ctx context.Context) (id.UniverseID, bool) {
	universeID := requestcontext.UniverseID(ctx)
	if universeID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "universe scope is required"))
		return id.UniverseID{}, false
	}
	return universeID, true
}

func (h *Handler) memberIDFromPath(w http.ResponseWriter, r *http.Request) (id.MemberID, bool) {
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "member id must be a valid uuid"))
		return id.MemberID{}, false
	}
	return memberID, true
}
