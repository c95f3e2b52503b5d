package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "branhox/internal/errors"
	"branhox/internal/reports"
	"branhox/internal/services"
)

// ReportHandler serves the report pages, their CSV and PDF exports and AI summaries.
type ReportHandler struct {
	reportService  services.ReportServicer
	insightService services.InsightServicer
	now            func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, insightService services.InsightServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, insightService: insightService, now: time.Now}
}

// bindDaily reads the daily filter. A request without a date parameter
// shows today; date= (empty) shows every day.
func (h *ReportHandler) bindDaily(c *gin.Context) (reports.DailyFilter, error) {
	var f reports.DailyFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		return f, bindError(err)
	}
	if _, ok := c.GetQuery("date"); !ok {
		f.Date = h.now().Format(time.DateOnly)
	}
	return f, nil
}

func bindQuery[T any](c *gin.Context) (T, error) {
	var f T
	if err := c.ShouldBindQuery(&f); err != nil {
		return f, bindError(err)
	}
	return f, nil
}

// Daily returns the daily report.
// @Summary     Daily report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       date           query string false "Day (YYYY-MM-DD), default today, empty for all days"
// @Param       agent          query string false "Agent name"
// @Param       platform       query string false "Platform"
// @Param       page_name      query string false "Page name"
// @Param       payment_method query string false "Payment method"
// @Param       category       query string false "Category"
// @Success     200 {object} reports.DailyReport "Daily report"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	f, err := h.bindDaily(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Daily(scope, f)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Monthly returns the monthly report.
// @Summary     Monthly report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month         query string false "Month (YYYY-MM), default current month"
// @Param       page          query int    false "Page number"
// @Param       rows_per_page query int    false "10, 25 or 50"
// @Success     200 {object} reports.MonthlyReport "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	f, err := bindQuery[reports.MonthlyFilter](c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Monthly(scope, f)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Referral returns the referral report.
// @Summary     Referral report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       code          query string false "Referral code, default FR2K"
// @Param       compare_code  query string false "Code to compare with"
// @Param       start_date    query string false "Start date (YYYY-MM-DD)"
// @Param       end_date      query string false "End date (YYYY-MM-DD)"
// @Param       page          query int    false "Page number"
// @Param       rows_per_page query int    false "10, 25 or 50"
// @Success     200 {object} reports.ReferralReport "Referral report"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /reports/referral [get]
func (h *ReportHandler) Referral(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	f, err := bindQuery[reports.ReferralFilter](c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Referral(scope, f)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Progress returns the agent leaderboard.
// @Summary     Agent progress report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       mode       query string false "7days, 15days, month or custom"
// @Param       start_date query string false "Start date for custom mode"
// @Param       end_date   query string false "End date for custom mode"
// @Param       search     query string false "Agent name filter"
// @Success     200 {object} reports.ProgressReport "Progress report"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /reports/progress [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	f, err := bindQuery[reports.ProgressFilter](c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.Progress(scope, f, c.Query("search"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// sendCSV writes records as a CSV attachment, or an error when there are none.
func sendCSV[T any](c *gin.Context, filename string, records []T) {
	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, records); err != nil {
		respondWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Export downloads the rows of a report as CSV.
// @Summary     Export report as CSV
// @Description Same filters as the report itself
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       report path string true "daily, monthly, referral or progress"
// @Success     200 {file} file "CSV file"
// @Failure     422 {object} ErrorResponse "No data to export"
// @Router      /reports/{report}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	switch c.Param("report") {
	case "daily":
		f, err := h.bindDaily(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		report, err := h.reportService.Daily(scope, f)
		if err != nil {
			respondWithError(c, err)
			return
		}
		sendCSV(c, "daily_report", report.Entries)
	case "monthly":
		f, err := bindQuery[reports.MonthlyFilter](c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		report, err := h.reportService.Monthly(scope, f)
		if err != nil {
			respondWithError(c, err)
			return
		}
		sendCSV(c, "monthly_report_"+report.Month, report.AllEntries)
	case "referral":
		f, err := bindQuery[reports.ReferralFilter](c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		report, err := h.reportService.Referral(scope, f)
		if err != nil {
			respondWithError(c, err)
			return
		}
		sendCSV(c, "referral_log_"+report.Filter.Code, report.AllLog)
	case "progress":
		f, err := bindQuery[reports.ProgressFilter](c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		report, err := h.reportService.Progress(scope, f, c.Query("search"))
		if err != nil {
			respondWithError(c, err)
			return
		}
		sendCSV(c, fmt.Sprintf("advanced_agent_insight_%s_to_%s", report.Filter.StartDate, report.Filter.EndDate), report.Agents)
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Unknown report"))
	}
}

// MonthlyPDF downloads the monthly report as PDF.
// @Summary     Monthly report PDF
// @Tags        reports
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM)"
// @Success     200 {file} file "PDF file"
// @Failure     422 {object} ErrorResponse "No data to export"
// @Router      /reports/monthly/pdf [get]
func (h *ReportHandler) MonthlyPDF(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	f, err := bindQuery[reports.MonthlyFilter](c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.reportService.MonthlyPDF(scope, f)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month := f.Month
	if month == "" {
		month = h.now().Format("2006-01")
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="monthly_report_%s.pdf"`, month))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Insight asks the AI provider to summarise a report view.
// @Summary     AI insight
// @Description Summarise the report selected by the same query parameters. Summaries are cached until entries change.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       report path string true "daily, monthly, referral or progress"
// @Success     200 {object} services.Insight "Summary, or available=false when AI is not configured"
// @Failure     502 {object} ErrorResponse "AI provider error"
// @Router      /reports/{report}/insight [post]
func (h *ReportHandler) Insight(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("report")
	if !services.IsInsightReport(name) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "Unknown report"))
		return
	}

	var data any
	switch name {
	case "daily":
		f, err := h.bindDaily(c)
		if err == nil {
			data, err = h.reportService.Daily(scope, f)
		}
		if err != nil {
			respondWithError(c, err)
			return
		}
	case "monthly":
		f, err := bindQuery[reports.MonthlyFilter](c)
		if err == nil {
			data, err = h.reportService.Monthly(scope, f)
		}
		if err != nil {
			respondWithError(c, err)
			return
		}
	case "referral":
		f, err := bindQuery[reports.ReferralFilter](c)
		if err == nil {
			data, err = h.reportService.Referral(scope, f)
		}
		if err != nil {
			respondWithError(c, err)
			return
		}
	case "progress":
		f, err := bindQuery[reports.ProgressFilter](c)
		if err == nil {
			data, err = h.reportService.Progress(scope, f, c.Query("search"))
		}
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	params, err := insightParams(data)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	insight, err := h.insightService.Summarize(c.Request.Context(), scope, name, params, data)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, insight)
}

// insightParams describes the view a report resolved to, after defaults,
// so requests that select the same view share one cached summary.
func insightParams(data any) (string, error) {
	var view any
	switch r := data.(type) {
	case *reports.DailyReport:
		view = r.Filter
	case *reports.MonthlyReport:
		view = struct {
			Month       string `json:"month"`
			Page        int    `json:"page"`
			RowsPerPage int    `json:"rows_per_page"`
		}{r.Month, r.Entries.Page, r.Entries.PageSize}
	case *reports.ReferralReport:
		f := r.Filter
		f.Page, f.RowsPerPage = r.DetailedLog.Page, r.DetailedLog.PageSize
		view = f
	case *reports.ProgressReport:
		view = struct {
			reports.ProgressFilter
			Search string `json:"search"`
		}{r.Filter, strings.ToLower(strings.TrimSpace(r.Search))}
	default:
		return "", fmt.Errorf("no insight view for %T", data)
	}
	b, err := json.Marshal(view)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
