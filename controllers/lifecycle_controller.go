// controllers/lifecycle_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"visitor-backend/services"
	"visitor-backend/utils"

	"github.com/gin-gonic/gin"
)

type PassIDPayload struct {
	PassID string `json:"passId" binding:"required"`
}

type LifecycleController struct {
	LifecycleSvc *services.LifecycleService
	ReportSvc    *services.ReportService
}

func NewLifecycleController(lifecycleSvc *services.LifecycleService, reportSvc *services.ReportService) *LifecycleController {
	return &LifecycleController{LifecycleSvc: lifecycleSvc, ReportSvc: reportSvc}
}

// VisitorIn (POST /visitor/in). Conflicts are user-facing messages, not
// generic failures: the desk needs to know the difference between "already
// inside" and "server broke".
func (ctrl *LifecycleController) VisitorIn(c *gin.Context) {
	var req PassIDPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Pass ID is required")
		return
	}

	mailSent, err := ctrl.LifecycleSvc.CheckIn(req.PassID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPassNotFound):
			utils.JSONError(c, http.StatusNotFound, "Pass ID not found")
		case errors.Is(err, services.ErrAlreadyCheckedIn):
			utils.JSONError(c, http.StatusConflict,
				"Visitor is already checked in or status invalid. Please check out first.")
		case errors.Is(err, services.ErrPassWindowClosed):
			utils.JSONError(c, http.StatusConflict, "Pass is outside its allowed visit window")
		default:
			log.Printf("check-in failed for pass %s: %v", req.PassID, err)
			utils.JSONError(c, http.StatusInternalServerError, "Server error while checking in visitor")
		}
		return
	}

	message := "Visitor checked in successfully and email sent"
	if !mailSent {
		message = "Visitor checked in; notification email not sent"
	}
	utils.JSONSuccessMessage(c, http.StatusCreated, message, gin.H{"passId": req.PassID})
}

// VisitorOut (POST /visitor/out)
func (ctrl *LifecycleController) VisitorOut(c *gin.Context) {
	var req PassIDPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Pass ID is required")
		return
	}

	if err := ctrl.LifecycleSvc.CheckOut(req.PassID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotCheckedIn):
			utils.JSONError(c, http.StatusConflict,
				"Visitor is not currently checked in or already checked out.")
		default:
			log.Printf("check-out failed for pass %s: %v", req.PassID, err)
			utils.JSONError(c, http.StatusInternalServerError, "Server error while checking out visitor")
		}
		return
	}

	utils.JSONSuccessMessage(c, http.StatusOK, "Visitor checked out successfully", gin.H{"passId": req.PassID})
}

// GetVisitorLogs (GET /visitor/logs?from=&to=) lists passes with joined
// log/department/employee info. Without query params it uses the default
// front-gate shift window.
func (ctrl *LifecycleController) GetVisitorLogs(c *gin.Context) {
	from, to := services.DefaultLogWindow()

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		from = t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		to = t
	}

	rows, err := ctrl.ReportSvc.VisitorLogs(from, to)
	if err != nil {
		log.Printf("GetVisitorLogs DB error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch visitor logs")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}
