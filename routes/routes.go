package routes

import (
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"visitor-backend/controllers"
	"visitor-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

var contactNoRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// registerValidators adds the contactno rule used by the pass form binding:
// optional leading +, then 7-15 digits. Dedup relies on exact string match,
// so the boundary is the only place format gets policed.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("contactno", func(fl validator.FieldLevel) bool {
			return contactNoRe.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	}
}

// SetupRouter wires controller instances onto the /visitor surface.
func SetupRouter(
	pc *controllers.PassController,
	lc *controllers.LifecycleController,
	nc *controllers.NotificationController,
) *gin.Engine {
	registerValidators()

	r := gin.Default()
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	visitor := r.Group("/visitor")
	{
		// pass issuance
		visitor.GET("/departments", pc.GetDepartments)
		visitor.GET("/employees", pc.GetEmployees)
		visitor.POST("/generate-pass", pc.GeneratePass)
		visitor.GET("/fetch-previous-pass", pc.FetchPreviousPass)
		visitor.GET("/pass-details/:passId", pc.GetPassDetails)
		visitor.GET("/reprint/:passId", pc.GetPassDetails)

		// in / out
		visitor.POST("/in", lc.VisitorIn)
		visitor.POST("/out", lc.VisitorOut)
		visitor.GET("/logs", lc.GetVisitorLogs)

		// notifications
		visitor.POST("/notify-inside", nc.NotifyInside)
	}

	return r
}
