package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolboard/internal/fees"
)

type markFeeRequest struct {
	StudentID string `json:"studentId" form:"studentId"`
	Date      string `json:"date" form:"date"`
	Paid      *bool  `json:"paid" form:"paid"`
}

func (h *Handler) markFee(c *gin.Context) {
	var req markFeeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	log := h.log.With().Str("student_id", req.StudentID).Str("date", req.Date).Logger()

	if _, err := h.fees.Mark(c.Request.Context(), fees.MarkInput{StudentID: req.StudentID, Date: req.Date, Paid: req.Paid}); err != nil {
		h.fail(c, log, "mark fee", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) studentFees(c *gin.Context) {
	studentID := c.Query("studentId")
	entries, err := h.fees.StudentRange(c.Request.Context(), studentID, c.Query("start"), c.Query("end"))
	if err != nil {
		h.fail(c, h.log.With().Str("student_id", studentID).Logger(), "student fees", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
