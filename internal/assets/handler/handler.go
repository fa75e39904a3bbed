// Package handler exposes the assets service over HTTP. Routes are
// universe-scoped the same way the family routes are.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nachlass/internal/assets/models"
	"nachlass/internal/assets/service"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/platform/httputil"
	"nachlass/pkg/requestcontext"
)

// Service defines the asset operations the handler needs.
type Service interface {
	CreateAsset(ctx context.Context, universeID id.UniverseID, req service.CreateAssetRequest) (*models.Asset, error)
	UpdateAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID, req service.UpdateAssetRequest) (*models.Asset, error)
	DeleteAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) error
	GetAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) (*models.Asset, error)
	ListAssets(ctx context.Context, universeID id.UniverseID) ([]*models.Asset, error)
	PreviewInheritance(ctx context.Context, universeID id.UniverseID, assetID id.AssetID, heirID id.MemberID) (*service.InheritancePreview, error)
}

// Handler wires asset endpoints to the assets service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assets handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AssetsResponse wraps an asset listing.
type AssetsResponse struct {
	Assets []*models.Asset `json:"assets"`
}

// Register mounts asset endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/assets", func(r chi.Router) {
		r.Get("/", h.HandleListAssets)
		r.Post("/", h.HandleCreateAsset)
		r.Get("/{assetID}", h.HandleGetAsset)
		r.Patch("/{assetID}", h.HandleUpdateAsset)
		r.Delete("/{assetID}", h.HandleDeleteAsset)
		r.Get("/{assetID}/inheritance-preview", h.HandlePreviewInheritance)
	})
}

// HandleCreateAsset handles POST /assets requests.
func (h *Handler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateAssetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	asset, err := h.service.CreateAsset(ctx, universeID, req.ToServiceRequest())
	if err != nil {
		h.logger.WarnContext(ctx, "create asset failed",
			"request_id", requestID,
			"universe_id", universeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "asset created",
		"request_id", requestID,
		"universe_id", universeID,
		"asset_id", asset.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, asset)
}

// HandleGetAsset handles GET /assets/{assetID} requests.
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	assetID, ok := h.assetIDFromPath(w, r)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(ctx, universeID, assetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, asset)
}

// HandleListAssets handles GET /assets requests.
func (h *Handler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}

	assets, err := h.service.ListAssets(ctx, universeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AssetsResponse{Assets: assets})
}

// HandleUpdateAsset handles PATCH /assets/{assetID} requests.
func (h *Handler) HandleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	assetID, ok := h.assetIDFromPath(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateAssetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	asset, err := h.service.UpdateAsset(ctx, universeID, assetID, req.ToServiceRequest())
	if err != nil {
		h.logger.WarnContext(ctx, "update asset failed",
			"request_id", requestID,
			"universe_id", universeID,
			"asset_id", assetID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, asset)
}

// HandleDeleteAsset handles DELETE /assets/{assetID} requests.
func (h *Handler) HandleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	assetID, ok := h.assetIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAsset(ctx, universeID, assetID); err != nil {
		h.logger.WarnContext(ctx, "delete asset failed",
			"request_id", requestID,
			"universe_id", universeID,
			"asset_id", assetID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePreviewInheritance handles GET /assets/{assetID}/inheritance-preview
// requests. The heir query parameter names the prospective heir.
func (h *Handler) HandlePreviewInheritance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	universeID, ok := h.universeFromContext(w, ctx)
	if !ok {
		return
	}
	assetID, ok := h.assetIDFromPath(w, r)
	if !ok {
		return
	}

	heirID, err := id.ParseMemberID(r.URL.Query().Get("heir"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "heir must be a valid member id"))
		return
	}

	preview, err := h.service.PreviewInheritance(ctx, universeID, assetID, heirID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, preview)
}

func (h *Handler) universeFromContext(w http.ResponseWriter, ctx context.Context) (id.UniverseID, bool) {
	universeID := requestcontext.UniverseID(ctx)
	if universeID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "universe scope is required"))
		return id.UniverseID{}, false
	}
	return universeID, true
}

func (h *Handler) assetIDFromPath(w http.ResponseWriter, r *http.Request) (id.AssetID, bool) {
	assetID, err := id.ParseAssetID(chi.URLParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "asset id must be a valid uuid"))
		return id.AssetID{}, false
	}
	return assetID, true
}
