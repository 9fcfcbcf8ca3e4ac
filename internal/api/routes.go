package api

import (
	"github.com/gin-gonic/gin"

	"schoolboard/internal/auth"
)

// StreamPath is excluded from rate limiting since clients hold it open.
const StreamPath = "/api/attendance/stream"

// Register mounts every endpoint on r. authn runs in front of all /api routes.
func (h *Handler) Register(r gin.IRouter, authn gin.HandlerFunc) {
	r.GET("/healthz", h.health)

	api := r.Group("/api", authn)
	staff := auth.RequireRoles(auth.RoleAdmin, auth.RoleTeacher)

	att := api.Group("/attendance")
	att.POST("/mark", staff, h.markAttendance)
	att.POST("/unmark", staff, h.unmarkAttendance)
	att.GET("/check", h.checkAttendance)
	att.GET("/stream", h.stream)
	att.GET("/student", h.studentAttendance)
	att.GET("/total", h.attendanceTotal)
	att.GET("/week", h.attendanceWeek)

	fee := api.Group("/fees")
	fee.POST("/mark", staff, h.markFee)
	fee.GET("/student", h.studentFees)

	api.GET("/results", h.listResults)
	api.GET("/results/recent", h.recentResults)
	api.POST("/admin/delete-result-group", auth.RequireRoles(auth.RoleAdmin), h.deleteResultGroup)
}
