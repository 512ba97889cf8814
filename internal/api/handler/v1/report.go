package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/puntoventa/pos-api/internal/api/handler/v1/response"
	"github.com/puntoventa/pos-api/internal/domain"
	"github.com/puntoventa/pos-api/internal/service"
)

type ReportSaleService interface {
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSaleLines(ctx context.Context, saleID uint) ([]domain.SaleLineDetail, error)
}

type ReportHandler struct {
	svc ReportSaleService
}

func NewReportHandler(svc ReportSaleService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

// HandleSummary godoc
// @Summary      Overall and today's sales statistics
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.SummaryResponse
// @Failure      500  {object}  response.Err
// @Router       /reports/summary [get]
// @Security BearerAuth
func (h *ReportHandler) HandleSummary(ctx *gin.Context) {
	records, ok := h.loadRecords(ctx, "HandleSummary")
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, response.SummaryResponse{
		Overall: service.OverallStats(records),
		Today:   service.DayStats(records, time.Time{}),
	})
}

// HandleDaily godoc
// @Summary      Sales statistics for one day
// @Tags         reports
// @Produce      json
// @Param        date  query     string  false  "Day to summarize (YYYY-MM-DD, default today)"
// @Success      200   {object}  domain.DayStats
// @Failure      500   {object}  response.Err
// @Router       /reports/daily [get]
// @Security BearerAuth
func (h *ReportHandler) HandleDaily(ctx *gin.Context) {
	records, ok := h.loadRecords(ctx, "HandleDaily")
	if !ok {
		return
	}

	// A missing or unparseable date falls back to today.
	day, _ := time.ParseInLocation("2006-01-02", ctx.Query("date"), time.Local)

	ctx.JSON(http.StatusOK, service.DayStats(records, day))
}

// HandleMonthly godoc
// @Summary      Sales totals bucketed by calendar month
// @Tags         reports
// @Produce      json
// @Param        months  query     int  false  "Number of months, newest last (default 12)"
// @Success      200     {array}   domain.MonthBucket
// @Failure      500     {object}  response.Err
// @Router       /reports/monthly [get]
// @Security BearerAuth
func (h *ReportHandler) HandleMonthly(ctx *gin.Context) {
	records, ok := h.loadRecords(ctx, "HandleMonthly")
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, service.SalesByMonth(records, intQuery(ctx, "months", 12)))
}

// HandleWeekly godoc
// @Summary      Sales totals bucketed by ISO week
// @Tags         reports
// @Produce      json
// @Param        weeks  query     int  false  "Number of weeks, newest last (default 12)"
// @Success      200    {array}   domain.WeekBucket
// @Failure      500    {object}  response.Err
// @Router       /reports/weekly [get]
// @Security BearerAuth
func (h *ReportHandler) HandleWeekly(ctx *gin.Context) {
	records, ok := h.loadRecords(ctx, "HandleWeekly")
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, service.SalesByWeek(records, intQuery(ctx, "weeks", 12)))
}

// HandleTopProducts godoc
// @Summary      Best selling products by quantity
// @Tags         reports
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (default 10)"
// @Success      200    {array}   domain.ProductStat
// @Failure      500    {object}  response.Err
// @Router       /reports/top-products [get]
// @Security BearerAuth
func (h *ReportHandler) HandleTopProducts(ctx *gin.Context) {
	records, ok := h.loadRecords(ctx, "HandleTopProducts")
	if !ok {
		return
	}

	stats := service.TopProducts(records, h.detailFn(ctx.Request.Context()), intQuery(ctx, "limit", 10))

	ctx.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) loadRecords(ctx *gin.Context, op string) ([]domain.SaleRecord, bool) {
	sales, err := h.svc.ListSales(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.%v -> h.svc.ListSales -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return nil, false
	}

	return service.ToRecords(sales), true
}

func (h *ReportHandler) detailFn(ctx context.Context) service.DetailFunc {
	return func(saleID uint) []domain.SaleLineDetail {
		lines, err := h.svc.GetSaleLines(ctx, saleID)
		if err != nil {
			zap.L().Warn("failed to load sale lines", zap.Uint("sale_id", saleID), zap.Error(err))

			return nil
		}

		return lines
	}
}
