package handler

import (
	"net/http"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/pkg/logger"
	"github.com/erickaser0011-byte/royal-fox-admin/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	backend *service.BackendClient
	console *service.Console
}

func NewDashboardHandler(backend *service.BackendClient, console *service.Console) *DashboardHandler {
	return &DashboardHandler{backend: backend, console: console}
}

// Show renders the application list. The list is fetched on the first view
// after login (or after the API URL changed) and on explicit refresh;
// search and date filtering run against the in-memory snapshot. A fetch
// failure keeps the previous snapshot and surfaces a connectivity notice.
func (h *DashboardHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()

	search := c.Query("q")
	bucket := service.DateBucket(c.DefaultQuery("date", "all"))
	expand := c.Query("expand")

	var errNotice string
	if !h.console.Loaded() || c.Query("refresh") == "1" {
		if err := h.console.Refresh(ctx); err != nil {
			logger.Error(ctx, "failed to fetch applications", "error", err, "api_url", h.backend.BaseURL())
			errNotice = "Error connecting to backend. Check API URL and ensure server is running."
		}
	}

	if flash := c.Query("error"); flash != "" {
		errNotice = flash
	}

	apps := h.console.Applications()
	filtered := service.FilterApplications(apps, search, bucket, time.Now())

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Apps":     filtered,
		"Total":    len(apps),
		"Filtered": len(filtered),
		"Search":   search,
		"Date":     string(bucket),
		"Expand":   expand,
		"Deleting": h.console.DeletingIDs(),
		"Error":    errNotice,
		"Notice":   c.Query("notice"),
	})
}
