package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "branhox/internal/errors"
	"branhox/internal/middleware"
	"branhox/internal/services"
)

// maxImportSize caps uploaded CSV files.
const maxImportSize = 5 << 20

// EntryHandler handles entry submission and correction.
type EntryHandler struct {
	entryService services.EntryServicer
	store        services.EntityStorer
	auditService services.AuditServicer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService services.EntryServicer, store services.EntityStorer, auditService services.AuditServicer) *EntryHandler {
	return &EntryHandler{entryService: entryService, store: store, auditService: auditService}
}

// entryAgentName picks the agent an entry is recorded under: the session's
// agent, or for admins the agent named in the request.
func entryAgentName(c *gin.Context, requested string) string {
	if c.GetString(middleware.RoleKey) == middleware.RoleAgent {
		return c.GetString(middleware.AgentNameKey)
	}
	return requested
}

// SubmitEntry records a new entry.
// @Summary     Submit an entry
// @Description Record a Recharge, Freeplay or Redeem entry. Agents record under their own name.
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.EntryDraft true "Entry details"
// @Success     201 {object} models.Entry "Entry recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /entries [post]
func (h *EntryHandler) SubmitEntry(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.EntryDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	entry, err := h.entryService.SubmitEntry(scope, entryAgentName(c, req.AgentName), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// RecentSubmissions lists the session agent's latest entries.
// @Summary     Recent submissions
// @Description The latest entries recorded by the current agent
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of entries (default 5)"
// @Success     200 {array} models.Entry "Recent entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /entries/recent [get]
func (h *EntryHandler) RecentSubmissions(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := services.DefaultRecentLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be between 1 and 50"))
			return
		}
		limit = n
	}

	entries, err := h.entryService.RecentSubmissions(scope, entryAgentName(c, c.Query("agent")), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// NextEntryID reports the id the next entry is expected to receive.
// @Summary     Next entry id
// @Description Informational preview of the next entry id
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int "Next id"
// @Router      /entries/next-id [get]
func (h *EntryHandler) NextEntryID(c *gin.Context) {
	id, err := h.store.NextEntryID()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next_id": id})
}

// EditEntry replaces an entry.
// @Summary     Edit an entry
// @Description Replace every editable field of an entry
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Entry ID"
// @Param       request body services.EntryDraft true "Entry details"
// @Success     200 {object} models.Entry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [put]
func (h *EntryHandler) EditEntry(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.EntryDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	entry, err := h.entryService.EditEntry(scope, id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "UPDATE_ENTRY", "entry", strconv.FormatUint(uint64(id), 10), c.ClientIP(),
		map[string]interface{}{"amount": entry.Amount.String(), "category": entry.Category})

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry removes an entry.
// @Summary     Delete an entry
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Entry ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entryService.DeleteEntry(scope, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "DELETE_ENTRY", "entry", strconv.FormatUint(uint64(id), 10), c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// DeleteMonth removes every entry of a month.
// @Summary     Delete a month
// @Description Delete all of the business's entries dated within the month
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} map[string]int "Deleted count"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Router      /entries/month/{month} [delete]
func (h *EntryHandler) DeleteMonth(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month := c.Param("month")
	deleted, err := h.entryService.DeleteEntriesForMonth(scope, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "DELETE_MONTH", "entry", month, c.ClientIP(),
		map[string]interface{}{"deleted": deleted})

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ImportEntries records the rows of an uploaded CSV file.
// @Summary     Import entries
// @Description Bulk-import entries from a CSV file; any invalid row rejects the whole file
// @Tags        entries
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file  formData file   true  "CSV file"
// @Param       agent formData string false "Agent name for rows without one"
// @Success     201 {object} map[string]int "Imported count"
// @Failure     400 {object} ErrorResponse "Invalid file"
// @Router      /entries/import [post]
func (h *EntryHandler) ImportEntries(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	if header.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is too large"))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	agentName := c.PostForm("agent")
	if agentName == "" {
		agentName = getActor(c)
	}

	imported, err := h.entryService.ImportEntries(scope, agentName, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "IMPORT_ENTRIES", "entry", header.Filename, c.ClientIP(),
		map[string]interface{}{"imported": imported})

	c.JSON(http.StatusCreated, gin.H{"imported": imported})
}
