package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolboard/internal/auth"
	"schoolboard/internal/results"
	apperrors "schoolboard/pkg/errors"
)

// listResults serves the grouped results table. Authenticated callers other
// than admins only see rows that belong to them.
func (h *Handler) listResults(c *gin.Context) {
	f := results.Filter{
		StudentID: c.Query("studentId"),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	if claims, ok := auth.FromContext(c); ok {
		switch claims.Role {
		case auth.RoleStudent:
			f.StudentID = claims.Subject
		case auth.RoleTeacher:
			f.TeacherID = claims.Subject
		case auth.RoleParent:
			f.ParentID = claims.Subject
		}
	}
	page, _ := strconv.Atoi(c.Query("page"))

	res, err := h.results.Listing(c.Request.Context(), f, page)
	if err != nil {
		h.fail(c, h.log, "list results", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) recentResults(c *gin.Context) {
	studentID := c.Query("studentId")
	log := h.log.With().Str("student_id", studentID).Logger()

	f := results.Filter{StudentID: studentID}
	if claims, ok := auth.FromContext(c); ok {
		switch claims.Role {
		case auth.RoleStudent:
			if claims.Subject != studentID {
				h.fail(c, log, "recent results", apperrors.ErrForbidden)
				return
			}
		case auth.RoleParent:
			f.ParentID = claims.Subject
		}
	}
	groups, err := h.results.Recent(c.Request.Context(), f)
	if err != nil {
		h.fail(c, log, "recent results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

func (h *Handler) deleteResultGroup(c *gin.Context) {
	ids := resultIDs(c)
	n, err := h.results.DeleteGroup(c.Request.Context(), ids)
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		h.log.Error().Err(err).Ints64("ids", ids).Msg("delete result group failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}
	h.log.Info().Ints64("ids", ids).Int64("deleted", n).Msg("result group deleted")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// resultIDs accepts {"ids": [...]} as JSON, or form values named ids that are
// repeated, comma separated, or a JSON array string.
func resultIDs(c *gin.Context) []int64 {
	var raw []any
	if c.ContentType() == gin.MIMEJSON {
		var body struct {
			IDs []any `json:"ids"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil
		}
		raw = body.IDs
	} else {
		for _, v := range c.PostFormArray("ids") {
			v = strings.TrimSpace(v)
			if strings.HasPrefix(v, "[") {
				var arr []any
				if json.Unmarshal([]byte(v), &arr) == nil {
					raw = append(raw, arr...)
				}
				continue
			}
			for _, part := range strings.Split(v, ",") {
				raw = append(raw, part)
			}
		}
	}

	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(v)), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
