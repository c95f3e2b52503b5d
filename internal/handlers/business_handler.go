package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"branhox/internal/services"
)

// BusinessHandler handles the business profile.
type BusinessHandler struct {
	businessService services.BusinessServicer
	auditService    services.AuditServicer
}

// NewBusinessHandler creates a new BusinessHandler.
func NewBusinessHandler(businessService services.BusinessServicer, auditService services.AuditServicer) *BusinessHandler {
	return &BusinessHandler{businessService: businessService, auditService: auditService}
}

// GetBusiness returns the authenticated business.
// @Summary     Get business
// @Description Get the profile of the authenticated business
// @Tags        business
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Business "Business profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Business not found"
// @Router      /business [get]
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	business, err := h.businessService.GetBusiness(scope)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": business})
}

// UpdateBusiness edits the business profile.
// @Summary     Update business
// @Description Update the business name, owner, phone or logo
// @Tags        business
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.ProfileUpdate true "Fields to change"
// @Success     200 {object} models.Business "Updated business"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /business [put]
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	scope, err := getScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	business, err := h.businessService.UpdateBusiness(scope, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.BusinessID(), getActor(c), "UPDATE_BUSINESS", "business", business.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"business": business})
}
