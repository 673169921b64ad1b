// controllers/notification_controller.go
package controllers

import (
	"fmt"
	"log"
	"net/http"

	"visitor-backend/services"
	"visitor-backend/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotifySvc *services.NotificationService
}

func NewNotificationController(svc *services.NotificationService) *NotificationController {
	return &NotificationController{NotifySvc: svc}
}

// NotifyInside (POST /visitor/notify-inside) runs the currently-inside sweep
// on demand — the same code path the scheduler triggers.
func (ctrl *NotificationController) NotifyInside(c *gin.Context) {
	count, sent, err := ctrl.NotifySvc.NotifyCurrentlyInside()
	if err != nil {
		log.Printf("currently-inside sweep failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Server error.")
		return
	}

	if count == 0 {
		utils.JSONSuccessMessage(c, http.StatusOK, "No visitors currently inside.", gin.H{"inside": 0})
		return
	}
	if !sent {
		utils.JSONError(c, http.StatusInternalServerError, "Email sending failed.")
		return
	}
	utils.JSONSuccessMessage(c, http.StatusOK,
		fmt.Sprintf("Email sent successfully to security. (%d visitors inside)", count),
		gin.H{"inside": count})
}
