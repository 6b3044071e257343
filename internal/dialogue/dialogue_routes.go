package dialogue

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches the dialogue steps under /voice. The paths
// must match the Route* action constants the markup points at.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	v := r.Group("/voice")
	{
		v.POST("/welcome", handler.Welcome)
		v.POST("/employee-id", handler.EmployeeID)
		v.POST("/menu", handler.Menu)
		v.POST("/leave-type", handler.LeaveType)
		v.POST("/date-range", handler.DateRange)
		v.POST("/status", handler.Status)
	}
}
