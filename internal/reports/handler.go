package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libra-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the overdue report on the public group; it is
// intentionally reachable without a token.
func RegisterRoutes(public, private gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	public.GET("/reports/overdue", h.Overdue)
	private.GET("/reports/most-borrowed", h.MostBorrowed)
	private.GET("/reports/active-users", h.ActiveUsers)
	private.GET("/reports/overdue/export", h.ExportOverdue)
	private.POST("/reports/stats/snapshot", h.Snapshot)
	private.GET("/reports/stats/previous", h.PreviousStats)
}

func (h *Handler) MostBorrowed(c *gin.Context) {
	out, err := h.svc.MostBorrowed(c.Request.Context(), parseIntDefault(c.Query("limit"), 0))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ActiveUsers(c *gin.Context) {
	out, err := h.svc.MostActiveBorrowers(c.Request.Context(), parseIntDefault(c.Query("limit"), 0))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Overdue(c *gin.Context) {
	out, err := h.svc.Overdue(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ExportOverdue(c *gin.Context) {
	rows, err := h.svc.Overdue(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	encoding := c.DefaultQuery("encoding", EncodingUTF8)
	if encoding != EncodingUTF8 && encoding != EncodingSJIS {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "encoding must be utf8 or sjis"))
		return
	}

	charset := "utf-8"
	if encoding == EncodingSJIS {
		charset = "shift_jis"
	}
	c.Header("Content-Type", "text/csv; charset="+charset)
	c.Header("Content-Disposition", `attachment; filename="overdue.csv"`)
	c.Status(http.StatusOK)
	if err := WriteOverdueCSV(c.Writer, rows, encoding); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) Snapshot(c *gin.Context) {
	out, err := h.svc.SnapshotToday(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) PreviousStats(c *gin.Context) {
	out, err := h.svc.PreviousDay(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
