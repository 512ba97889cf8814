package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/puntoventa/pos-api/internal/api/handler/v1/request"
	"github.com/puntoventa/pos-api/internal/api/handler/v1/response"
	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/service"
)

type SaleService interface {
	RegisterSale(ctx context.Context, entries []domain.CartEntry, actorID *uint) (domain.Sale, error)
	SaveDraft(ctx context.Context, entries []domain.CartEntry, actorID *uint) (domain.DraftSale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSaleLines(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error)
	ListDrafts(ctx context.Context) ([]domain.DraftSale, error)
	GetDraft(ctx context.Context, id uint) (domain.DraftSale, error)
	DeleteDraft(ctx context.Context, id uint) error
}

type SaleHandler struct {
	svc SaleService
}

func NewSaleHandler(svc SaleService) *SaleHandler {
	return &SaleHandler{
		svc: svc,
	}
}

// HandleRegisterSale godoc
// @Summary      Register a sale
// @Description  Validates the cart, persists the sale and decrements stock atomically.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterSaleRequest true "request body"
// @Success      201      {object}  response.RegisterSaleResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /sales [post]
// @Security BearerAuth
func (h *SaleHandler) HandleRegisterSale(ctx *gin.Context) {
	var req request.RegisterSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	sale, err := h.svc.RegisterSale(ctx.Request.Context(), toCartEntries(req.Items), actorID(ctx))
	if err != nil {
		renderSaleErr(ctx, err)

		return
	}

	ctx.JSON(http.StatusCreated, response.RegisterSaleResponse{
		Message: "Sale registered successfully.",
		Sale:    sale,
	})
}

// HandleListSales godoc
// @Summary      List sales, filtered and paginated
// @Tags         sales
// @Produce      json
// @Param        q          query     string  false  "Free-text search (sale id, username or product name)"
// @Param        date_from  query     string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param        user       query     string  false  "Username substring"
// @Param        min_total  query     number  false  "Minimum total"
// @Param        page       query     int     false  "Page (default 1)"
// @Param        per_page   query     int     false  "Page size (default 10)"
// @Success      200        {object}  response.SalesPageResponse
// @Failure      500        {object}  response.Err
// @Router       /sales [get]
// @Security BearerAuth
func (h *SaleHandler) HandleListSales(ctx *gin.Context) {
	sales, err := h.svc.ListSales(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListSales -> h.svc.ListSales -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	records := service.ToRecords(sales)
	filtered := service.FilterSales(records, h.detailFn(ctx.Request.Context()), domain.SaleFilter{
		Query:    ctx.Query("q"),
		DateFrom: ctx.Query("date_from"),
		DateTo:   ctx.Query("date_to"),
		User:     ctx.Query("user"),
		MinTotal: ctx.Query("min_total"),
	})

	slice, page, perPage, totalItems, totalPages := service.Paginate(
		filtered,
		intQuery(ctx, "page", 1),
		intQuery(ctx, "per_page", 10),
	)

	ctx.JSON(http.StatusOK, response.SalesPageResponse{
		Sales:      slice,
		Usernames:  service.UniqueUsernames(records),
		Page:       page,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
	})
}

// HandleGetSaleLines godoc
// @Summary      Get the line items of a sale
// @Tags         sales
// @Produce      json
// @Param        saleID  path      int  true  "Sale ID"
// @Success      200     {array}   domain.SaleLineDetail
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /sales/{saleID}/lines [get]
// @Security BearerAuth
func (h *SaleHandler) HandleGetSaleLines(ctx *gin.Context) {
	id, ok := uintParam(ctx, "saleID")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("sale", "ID", ctx.Param("saleID")))

		return
	}

	lines, err := h.svc.GetSaleLines(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSaleLines -> h.svc.GetSaleLines -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, lines)
}

// HandleSaveDraft godoc
// @Summary      Save a cart as a draft
// @Description  Persists a cart snapshot without touching inventory.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        request  body      request.SaveDraftRequest true "request body"
// @Success      201      {object}  response.SaveDraftResponse
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /drafts [post]
// @Security BearerAuth
func (h *SaleHandler) HandleSaveDraft(ctx *gin.Context) {
	var req request.SaveDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	draft, err := h.svc.SaveDraft(ctx.Request.Context(), toCartEntries(req.Items), actorID(ctx))
	if err != nil {
		renderSaleErr(ctx, err)

		return
	}

	ctx.JSON(http.StatusCreated, response.SaveDraftResponse{
		Message: "Draft saved successfully.",
		Draft:   draft,
	})
}

// HandleListDrafts godoc
// @Summary      List saved drafts, newest first
// @Tags         drafts
// @Produce      json
// @Success      200  {array}   domain.DraftSale
// @Failure      500  {object}  response.Err
// @Router       /drafts [get]
// @Security BearerAuth
func (h *SaleHandler) HandleListDrafts(ctx *gin.Context) {
	drafts, err := h.svc.ListDrafts(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListDrafts -> h.svc.ListDrafts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, drafts)
}

// HandleGetDraft godoc
// @Summary      Get a draft by ID
// @Tags         drafts
// @Produce      json
// @Param        draftID  path      int  true  "Draft ID"
// @Success      200      {object}  domain.DraftSale
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /drafts/{draftID} [get]
// @Security BearerAuth
func (h *SaleHandler) HandleGetDraft(ctx *gin.Context) {
	id, ok := uintParam(ctx, "draftID")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("draft", "ID", ctx.Param("draftID")))

		return
	}

	draft, err := h.svc.GetDraft(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("draft", "ID", id))

			return
		}

		err = fmt.Errorf("v1.HandleGetDraft -> h.svc.GetDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, draft)
}

// HandleDeleteDraft godoc
// @Summary      Delete a draft
// @Tags         drafts
// @Produce      json
// @Param        draftID  path      int  true  "Draft ID"
// @Success      204      "No Content"
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /drafts/{draftID} [delete]
// @Security BearerAuth
func (h *SaleHandler) HandleDeleteDraft(ctx *gin.Context) {
	id, ok := uintParam(ctx, "draftID")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("draft", "ID", ctx.Param("draftID")))

		return
	}

	if err := h.svc.DeleteDraft(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("draft", "ID", id))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteDraft -> h.svc.DeleteDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// detailFn adapts GetSaleLines to the reporting DetailFunc shape. Lookup
// failures degrade to an empty detail list rather than failing the
// listing.
func (h *SaleHandler) detailFn(ctx context.Context) service.DetailFunc {
	return func(saleID uint) []domain.SaleLineDetail {
		lines, err := h.svc.GetSaleLines(ctx, saleID)
		if err != nil {
			zap.L().Warn("failed to load sale lines", zap.Uint("sale_id", saleID), zap.Error(err))

			return nil
		}

		return lines
	}
}

func toCartEntries(items []request.CartEntry) []domain.CartEntry {
	entries := make([]domain.CartEntry, len(items))
	for i, item := range items {
		entries[i] = domain.CartEntry{
			ProductID: item.ID.String(),
			Quantity:  item.Quantity.String(),
		}
	}

	return entries
}

// renderSaleErr maps the sale service's validation errors onto HTTP
// statuses; every validation failure carries its specific message.
func renderSaleErr(ctx *gin.Context, err error) {
	var (
		malformed   *service.MalformedEntryError
		badQuantity *service.InvalidQuantityError
		notFound    *service.ProductNotFoundError
		outOfStock  *service.InsufficientStockError
	)

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.As(err, &malformed):
		response.RenderErr(ctx, response.ErrBadRequest(malformed))
	case errors.As(err, &badQuantity):
		response.RenderErr(ctx, response.ErrBadRequest(badQuantity))
	case errors.As(err, &notFound):
		response.RenderErr(ctx, response.ErrNotFound("product", "ID", notFound.ProductID))
	case errors.As(err, &outOfStock):
		response.RenderErr(ctx, response.ErrConflict(outOfStock))
	case errors.Is(err, service.ErrInsufficientStock):
		// Lost the stock race at commit time.
		response.RenderErr(ctx, response.ErrConflict(service.ErrInsufficientStock))
	default:
		err = fmt.Errorf("v1.renderSaleErr -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
