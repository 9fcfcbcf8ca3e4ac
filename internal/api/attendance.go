package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolboard/internal/attendance"
)

type markAttendanceRequest struct {
	StudentID string `json:"studentId" form:"studentId"`
	LessonID  int64  `json:"lessonId" form:"lessonId"`
	Present   *bool  `json:"present" form:"present"`
	Date      string `json:"date" form:"date"`
}

func (h *Handler) markAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	log := h.log.With().Str("student_id", req.StudentID).Int64("lesson_id", req.LessonID).Str("date", req.Date).Logger()

	_, err := h.attendance.Mark(c.Request.Context(), attendance.MarkInput{
		StudentID: req.StudentID,
		LessonID:  req.LessonID,
		Present:   req.Present,
		Date:      req.Date,
	})
	if err != nil {
		h.fail(c, log, "mark attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type unmarkAttendanceRequest struct {
	StudentID string `json:"studentId" form:"studentId"`
	LessonID  int64  `json:"lessonId" form:"lessonId"`
	Date      string `json:"date" form:"date"`
}

func (h *Handler) unmarkAttendance(c *gin.Context) {
	var req unmarkAttendanceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	log := h.log.With().Str("student_id", req.StudentID).Int64("lesson_id", req.LessonID).Str("date", req.Date).Logger()

	if _, err := h.attendance.Unmark(c.Request.Context(), req.StudentID, req.LessonID, req.Date); err != nil {
		h.fail(c, log, "unmark attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) checkAttendance(c *gin.Context) {
	studentID := c.Query("studentId")
	lessonID, _ := strconv.ParseInt(c.Query("lessonId"), 10, 64)
	date := c.Query("date")
	log := h.log.With().Str("student_id", studentID).Int64("lesson_id", lessonID).Str("date", date).Logger()

	res, err := h.attendance.Check(c.Request.Context(), studentID, lessonID, date)
	if err != nil {
		h.fail(c, log, "check attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *Handler) studentAttendance(c *gin.Context) {
	studentID := c.Query("studentId")
	days, err := h.attendance.StudentMonth(c.Request.Context(), studentID, c.Query("month"), c.Query("year"))
	if err != nil {
		h.fail(c, h.log.With().Str("student_id", studentID).Logger(), "student attendance", err)
		return
	}
	if days == nil {
		days = []attendance.StudentDay{}
	}
	c.JSON(http.StatusOK, gin.H{"data": days})
}

func (h *Handler) attendanceTotal(c *gin.Context) {
	totals, err := h.attendance.MonthTotals(c.Request.Context(), c.Query("month"), c.Query("year"))
	if err != nil {
		h.fail(c, h.log, "attendance totals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (h *Handler) attendanceWeek(c *gin.Context) {
	week, err := h.attendance.Week(c.Request.Context())
	if err != nil {
		h.fail(c, h.log, "attendance week", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": week})
}
