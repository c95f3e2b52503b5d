package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "branhox/internal/errors"
	"branhox/internal/models"
	"branhox/internal/services"
)

// SettingsHandler handles the option lists used by the entry form.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// SettingValueRequest carries one option value.
type SettingValueRequest struct {
	Value string `json:"value" binding:"required"`
}

// settingParams reads the list key and, when withIndex is set, the index.
func settingParams(c *gin.Context, withIndex bool) (models.SettingKey, int, error) {
	key := models.SettingKey(c.Param("key"))
	if !key.Valid() {
		return "", 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown setting key")
	}
	if !withIndex {
		return key, 0, nil
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return "", 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid index")
	}
	return key, index, nil
}

// GetSettings returns the option lists.
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.TenantSettings "Option lists"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(scope)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// AddSettingValue appends a value to a list.
// @Summary     Add a setting value
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       key     path string              true "List key (pageNames, platforms, paymentMethods, playerHistories)"
// @Param       request body SettingValueRequest true "Value"
// @Success     201 {object} models.TenantSettings "Updated lists"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate value"
// @Router      /settings/{key} [post]
func (h *SettingsHandler) AddSettingValue(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key, _, err := settingParams(c, false)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SettingValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.settingsService.AddSettingValue(scope, key, req.Value)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "ADD_SETTING", "setting", string(key), c.ClientIP(),
		map[string]interface{}{"value": req.Value})

	c.JSON(http.StatusCreated, gin.H{"settings": settings})
}

// EditSettingValue replaces a value in a list.
// @Summary     Edit a setting value
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       key     path string              true "List key"
// @Param       index   path int                 true "Position in the list"
// @Param       request body SettingValueRequest true "New value"
// @Success     200 {object} models.TenantSettings "Updated lists"
// @Failure     404 {object} ErrorResponse "Index out of range"
// @Failure     409 {object} ErrorResponse "Duplicate value"
// @Router      /settings/{key}/{index} [put]
func (h *SettingsHandler) EditSettingValue(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key, index, err := settingParams(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SettingValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.settingsService.EditSettingValue(scope, key, index, req.Value)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "EDIT_SETTING", "setting", string(key), c.ClientIP(),
		map[string]interface{}{"index": index, "value": req.Value})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// DeleteSettingValue removes a value from a list.
// @Summary     Delete a setting value
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Param       key   path string true "List key"
// @Param       index path int    true "Position in the list"
// @Success     200 {object} models.TenantSettings "Updated lists"
// @Failure     404 {object} ErrorResponse "Index out of range"
// @Router      /settings/{key}/{index} [delete]
func (h *SettingsHandler) DeleteSettingValue(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key, index, err := settingParams(c, true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.DeleteSettingValue(scope, key, index)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "DELETE_SETTING", "setting", string(key), c.ClientIP(),
		map[string]interface{}{"index": index})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
