// Package http exposes the tracking system over HTTP: the checkpoint scan
// endpoint for staff scanners, the claim and listing endpoints for the
// client portal and the staff panel listing.
package http

import (
	"errors"
	"net/http"

	"kargotrack/internal/core/application/usecases/commands"
	"kargotrack/internal/core/application/usecases/queries"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ownerHeader identifies the portal client. The portal's auth proxy
// resolves the session and forwards the client id in this header.
const ownerHeader = "X-Owner-ID"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	scanHandler         commands.ProcessCheckpointScanCommandHandler
	claimHandler        commands.ClaimParcelsCommandHandler
	catchUpHandler      commands.CatchUpParcelCommandHandler
	catchUpOwnerHandler commands.CatchUpOwnerParcelsCommandHandler

	historyHandler      queries.GetParcelHistoryQueryHandler
	ownerParcelsHandler queries.GetOwnerParcelsQueryHandler
	recentHandler       queries.GetRecentParcelsQueryHandler
	pickupPointsHandler queries.GetPickupPointsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	scanHandler commands.ProcessCheckpointScanCommandHandler,
	claimHandler commands.ClaimParcelsCommandHandler,
	catchUpHandler commands.CatchUpParcelCommandHandler,
	catchUpOwnerHandler commands.CatchUpOwnerParcelsCommandHandler,
	historyHandler queries.GetParcelHistoryQueryHandler,
	ownerParcelsHandler queries.GetOwnerParcelsQueryHandler,
	recentHandler queries.GetRecentParcelsQueryHandler,
	pickupPointsHandler queries.GetPickupPointsQueryHandler,
) *Server {
	return &Server{
		scanHandler:         scanHandler,
		claimHandler:        claimHandler,
		catchUpHandler:      catchUpHandler,
		catchUpOwnerHandler: catchUpOwnerHandler,
		historyHandler:      historyHandler,
		ownerParcelsHandler: ownerParcelsHandler,
		recentHandler:       recentHandler,
		pickupPointsHandler: pickupPointsHandler,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/checkpoint/scans", s.ProcessScan)
	api.POST("/parcels/claim", s.ClaimParcels)
	api.GET("/parcels", s.GetOwnerParcels)
	api.GET("/parcels/:trackNumber/history", s.GetParcelHistory)
	api.GET("/pickup-points", s.GetPickupPoints)
	api.GET("/staff/parcels/recent", s.GetRecentParcels)

	e.GET("/health", s.Health)
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ScanRequest is the checkpoint scanner payload.
type ScanRequest struct {
	TrackNumber   string `json:"track_number"`
	PickupPointID string `json:"pickup_point_id,omitempty"`
}

// ScanResponse confirms a processed scan.
type ScanResponse struct {
	Message string `json:"message"`
}

// ProcessScan handles POST /api/v1/checkpoint/scans. A premature second
// scan is answered with 409 and the remaining wait in the message.
func (s *Server) ProcessScan(ctx echo.Context) error {
	var request ScanRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var pickupPointID *kernel.UUID
	if request.PickupPointID != "" {
		id, err := kernel.UUIDFromString(request.PickupPointID)
		if err != nil {
			return badRequest(ctx, "Invalid pickup point id")
		}
		pickupPointID = &id
	}

	cmd, err := commands.NewProcessCheckpointScanCommand(request.TrackNumber, pickupPointID)
	if err != nil {
		return badRequest(ctx, "Invalid tracking code: "+err.Error())
	}

	message, err := s.scanHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, commands.ErrSecondScanNotReady) {
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		}
		return internalError(ctx, "Failed to process scan")
	}

	return ctx.JSON(http.StatusOK, ScanResponse{Message: message})
}

// ClaimRequest is the portal's claim payload.
type ClaimRequest struct {
	TrackNumbers []string `json:"track_numbers"`
}

// ClaimResultResponse reports the outcome for one tracking code.
type ClaimResultResponse struct {
	TrackNumber string `json:"track_number"`
	Outcome     string `json:"outcome"`
}

// ClaimResponse lists per-code claim outcomes.
type ClaimResponse struct {
	Results []ClaimResultResponse `json:"results"`
}

// ClaimParcels handles POST /api/v1/parcels/claim.
func (s *Server) ClaimParcels(ctx echo.Context) error {
	ownerID, err := ownerFromHeader(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var request ClaimRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewClaimParcelsCommand(ownerID, request.TrackNumbers)
	if err != nil {
		return badRequest(ctx, "Invalid claim request: "+err.Error())
	}

	results, err := s.claimHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return internalError(ctx, "Failed to claim parcels")
	}

	response := ClaimResponse{Results: make([]ClaimResultResponse, len(results))}
	for i, result := range results {
		response.Results[i] = ClaimResultResponse{
			TrackNumber: result.TrackNumber,
			Outcome:     string(result.Outcome),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ParcelHistoryEvent is one ledger row of the tracking page payload.
type ParcelHistoryEvent struct {
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	Message     string `json:"message"`
	OccurredAt  string `json:"occurred_at"`
	IsLatest    bool   `json:"is_latest"`
}

// ParcelHistoryResponse is the tracking page payload.
type ParcelHistoryResponse struct {
	TrackNumber string               `json:"track_number"`
	Status      string               `json:"status"`
	StatusLabel string               `json:"status_label"`
	Claimed     bool                 `json:"claimed"`
	Events      []ParcelHistoryEvent `json:"events"`
}

// GetParcelHistory handles GET /api/v1/parcels/:trackNumber/history.
// The parcel is caught up with elapsed time before reading, so the page is
// accurate even between sweep ticks.
func (s *Server) GetParcelHistory(ctx echo.Context) error {
	rawTrackNumber := ctx.Param("trackNumber")

	catchUp, err := commands.NewCatchUpParcelCommand(rawTrackNumber)
	if err != nil {
		return badRequest(ctx, "Invalid tracking code: "+err.Error())
	}

	if _, err = s.catchUpHandler.Handle(ctx.Request().Context(), catchUp); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Unknown tracking code")
		}
		return internalError(ctx, "Failed to refresh parcel")
	}

	query, err := queries.NewGetParcelHistoryQuery(rawTrackNumber)
	if err != nil {
		return badRequest(ctx, "Invalid tracking code: "+err.Error())
	}

	history, err := s.historyHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return notFound(ctx, "Unknown tracking code")
		}
		return internalError(ctx, "Failed to load history")
	}

	response := ParcelHistoryResponse{
		TrackNumber: history.TrackNumber,
		Status:      history.Status,
		StatusLabel: history.StatusLabel,
		Claimed:     history.Claimed,
		Events:      make([]ParcelHistoryEvent, len(history.Events)),
	}
	for i, event := range history.Events {
		response.Events[i] = ParcelHistoryEvent{
			Status:      event.Status,
			StatusLabel: event.StatusLabel,
			Message:     event.Message,
			OccurredAt:  event.OccurredAt,
			IsLatest:    event.IsLatest,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// OwnerParcel is one claimed parcel in the portal listing.
type OwnerParcel struct {
	TrackNumber string `json:"track_number"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	CreatedAt   string `json:"created_at"`
}

// OwnerParcelsResponse is the portal's parcel list with status counts.
type OwnerParcelsResponse struct {
	Parcels      []OwnerParcel  `json:"parcels"`
	StatusCounts map[string]int `json:"status_counts"`
}

// GetOwnerParcels handles GET /api/v1/parcels. The client's parcels are
// caught up before reading.
func (s *Server) GetOwnerParcels(ctx echo.Context) error {
	ownerID, err := ownerFromHeader(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	catchUp, err := commands.NewCatchUpOwnerParcelsCommand(ownerID)
	if err != nil {
		return badRequest(ctx, "Invalid owner id")
	}
	if _, err = s.catchUpOwnerHandler.Handle(ctx.Request().Context(), catchUp); err != nil {
		return internalError(ctx, "Failed to refresh parcels")
	}

	query, err := queries.NewGetOwnerParcelsQuery(ownerID)
	if err != nil {
		return badRequest(ctx, "Invalid owner id")
	}

	list, err := s.ownerParcelsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to load parcels")
	}

	response := OwnerParcelsResponse{
		Parcels:      make([]OwnerParcel, len(list.Parcels)),
		StatusCounts: list.StatusCounts,
	}
	for i, p := range list.Parcels {
		response.Parcels[i] = OwnerParcel{
			TrackNumber: p.TrackNumber,
			Status:      p.Status,
			StatusLabel: p.StatusLabel,
			CreatedAt:   p.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RecentParcel is one row of the staff panel listing.
type RecentParcel struct {
	TrackNumber string `json:"track_number"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	Claimed     bool   `json:"claimed"`
	CreatedAt   string `json:"created_at"`
}

// GetRecentParcels handles GET /api/v1/staff/parcels/recent.
func (s *Server) GetRecentParcels(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(ctx).Int("limit", &limit).BindError(); err != nil {
			return badRequest(ctx, "Invalid limit")
		}
	}

	query, err := queries.NewGetRecentParcelsQuery(limit)
	if err != nil {
		return badRequest(ctx, "Invalid limit: "+err.Error())
	}

	parcels, err := s.recentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return internalError(ctx, "Failed to load parcels")
	}

	response := make([]RecentParcel, len(parcels))
	for i, p := range parcels {
		response[i] = RecentParcel{
			TrackNumber: p.TrackNumber,
			Status:      p.Status,
			StatusLabel: p.StatusLabel,
			Claimed:     p.Claimed,
			CreatedAt:   p.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// PickupPoint is one active pickup point on the contacts page.
type PickupPoint struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// GetPickupPoints handles GET /api/v1/pickup-points.
func (s *Server) GetPickupPoints(ctx echo.Context) error {
	points, err := s.pickupPointsHandler.Handle(ctx.Request().Context(), queries.NewGetPickupPointsQuery())
	if err != nil {
		return internalError(ctx, "Failed to load pickup points")
	}

	response := make([]PickupPoint, len(points))
	for i, point := range points {
		response[i] = PickupPoint{
			ID:      point.ID,
			Name:    point.Name,
			Address: point.Address,
			Phone:   point.Phone,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func ownerFromHeader(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(ownerHeader)
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("ownerID")
	}
	return kernel.UUIDFromString(raw)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, ErrorResponse{
		Code:    http.StatusNotFound,
		Message: message,
	})
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: "Missing or invalid " + ownerHeader + " header",
	})
}

func internalError(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
