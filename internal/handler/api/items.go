// Package api exposes the aggregation engine over HTTP.
package api

import (
	"errors"

	"HomePulse/internal/domain/models"
	domrepo "HomePulse/internal/domain/repository"
	"HomePulse/internal/usecase"
	xhttp "HomePulse/pkg/http"
	xlogger "HomePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ItemsHandler serves apartment detail, walkability and trade endpoints.
type ItemsHandler struct {
	logger     *xlogger.Logger
	catalog    domrepo.ApartmentCatalog
	source     domrepo.TradeRecordSource
	reconciler *usecase.Reconciler
	access     *usecase.ProximityAggregator
	collector  *usecase.Collector
}

func NewItemsHandler(logger *xlogger.Logger, catalog domrepo.ApartmentCatalog,
	source domrepo.TradeRecordSource, reconciler *usecase.Reconciler,
	access *usecase.ProximityAggregator, collector *usecase.Collector) *ItemsHandler {
	return &ItemsHandler{
		logger:     logger,
		catalog:    catalog,
		source:     source,
		reconciler: reconciler,
		access:     access,
		collector:  collector,
	}
}

func (h *ItemsHandler) RegisterRoutes(e *echo.Echo) {
	items := e.Group("/api/items")
	items.GET("/:aptSeq", h.Detail)
	items.GET("/:aptSeq/access", h.Access)
	items.GET("/:aptSeq/latest-deal", h.LatestDeal)
	items.GET("/:aptSeq/transactions", h.Transactions)
	items.GET("/:aptSeq/transactions/recent", h.RecentDeals)

	regions := e.Group("/api/regions")
	regions.GET("/code", h.ResolveRegion)
	regions.GET("/:code/transactions/recent", h.RegionRecentDeals)
}

// ResolveRegion maps a sido/gugun/dong triple to the district code the trade
// endpoints accept.
func (h *ItemsHandler) ResolveRegion(c echo.Context) error {
	req := &models.RegionResolveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	code, err := h.catalog.ResolveRegion(c.Request().Context(), req.Sido, req.Gugun, req.Dong)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.AppErrorResponse(c,
				xhttp.InvalidArgumentErrorf("unknown district %s %s %s", req.Sido, req.Gugun, req.Dong))
		}
		h.logger.Error("region resolve error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"regionCode": code})
}

// Detail returns the catalog record, optionally enriched with the proximity
// summary and latest reconciled deal.
func (h *ItemsHandler) Detail(c echo.Context) error {
	req := &models.ItemDetailRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	aptSeq := c.Param("aptSeq")

	apt, err := h.lookup(c, aptSeq)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	res := &models.ItemDetailResponse{Info: apt}
	if req.WithAccess {
		access, err := h.access.Summarize(c.Request().Context(), aptSeq)
		if err != nil {
			h.logger.Error("access summary error", xlogger.String("apt", aptSeq), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		res.Access = access
	}
	res.LastDeal = h.reconciler.FindLatestDeal(c.Request().Context(), apt, 0)
	return xhttp.SuccessResponse(c, res)
}

// Access returns the walkability summary alone.
func (h *ItemsHandler) Access(c echo.Context) error {
	aptSeq := c.Param("aptSeq")
	sum, err := h.access.Summarize(c.Request().Context(), aptSeq)
	if err != nil {
		h.logger.Error("access summary error", xlogger.String("apt", aptSeq), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sum)
}

// LatestDeal returns the reconciled latest sale, or an empty body when no
// period in the scan window matched.
func (h *ItemsHandler) LatestDeal(c echo.Context) error {
	aptSeq := c.Param("aptSeq")
	apt, err := h.lookup(c, aptSeq)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	snap := h.reconciler.FindLatestDeal(c.Request().Context(), apt, 0)
	return xhttp.SuccessResponse(c, snap)
}

// Transactions returns one raw upstream page for the apartment's district.
func (h *ItemsHandler) Transactions(c echo.Context) error {
	req := &models.TransactionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	apt, err := h.lookup(c, c.Param("aptSeq"))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	rows, err := h.source.Fetch(c.Request().Context(), apt.RegionCode, req.Period, req.Page, req.Size)
	if err != nil {
		h.logger.Error("transactions fetch error",
			xlogger.String("region", apt.RegionCode),
			xlogger.String("period", req.Period),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// RecentDeals returns the multi-period collection scoped to one apartment.
func (h *ItemsHandler) RecentDeals(c echo.Context) error {
	req := &models.RecentDealsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	apt, err := h.lookup(c, c.Param("aptSeq"))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	rows := h.collector.CollectForApartment(c.Request().Context(), apt, req.Years, req.Limit)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// RegionRecentDeals returns the multi-period collection for a whole legal
// district, unfiltered.
func (h *ItemsHandler) RegionRecentDeals(c echo.Context) error {
	req := &models.RecentDealsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	code := c.Param("code")
	if code == "" {
		return xhttp.AppErrorResponse(c, xhttp.InvalidArgumentError("region code is required"))
	}

	rows := h.collector.CollectForRegion(c.Request().Context(), code, req.Years, req.Limit)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *ItemsHandler) lookup(c echo.Context, aptSeq string) (*models.Apartment, error) {
	apt, err := h.catalog.Lookup(c.Request().Context(), aptSeq)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return nil, xhttp.InvalidArgumentErrorf("unknown apartment %s", aptSeq)
		}
		h.logger.Error("catalog lookup error", xlogger.String("apt", aptSeq), xlogger.Error(err))
		return nil, err
	}
	return apt, nil
}
