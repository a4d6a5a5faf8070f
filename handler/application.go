package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/erickaser0011-byte/royal-fox-admin/model"
	"github.com/erickaser0011-byte/royal-fox-admin/pkg/logger"
	"github.com/erickaser0011-byte/royal-fox-admin/service"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	backend *service.BackendClient
	console *service.Console
}

func NewApplicationHandler(backend *service.BackendClient, console *service.Console) *ApplicationHandler {
	return &ApplicationHandler{backend: backend, console: console}
}

// fileKinds maps the download route segment to the stored-file reference
// and the suggested filename prefix.
var fileKinds = map[string]struct {
	prefix string
	path   func(*model.Application) string
}{
	"id-front": {"ID-Front", func(a *model.Application) string {
		if a.PersonalInfo == nil {
			return ""
		}
		return a.PersonalInfo.IDFront
	}},
	"id-back": {"ID-Back", func(a *model.Application) string {
		if a.PersonalInfo == nil {
			return ""
		}
		return a.PersonalInfo.IDBack
	}},
	"resume": {"Resume", func(a *model.Application) string {
		if a.Documents == nil {
			return ""
		}
		return a.Documents.Resume
	}},
}

// Delete removes one application after explicit confirmation. The
// in-memory list only changes when the backend confirms; every outcome is
// reported back on the dashboard via flash parameters. The expansion is
// cleared when the deleted card was the expanded one.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	applicationID := c.Param("id")

	params := url.Values{}
	if q := c.PostForm("q"); q != "" {
		params.Set("q", q)
	}
	if date := c.PostForm("date"); date != "" {
		params.Set("date", date)
	}
	expand := c.PostForm("expand")
	recordID := c.PostForm("record_id")

	keepExpand := func() {
		if expand != "" {
			params.Set("expand", expand)
		}
	}

	if c.PostForm("confirm") != "yes" {
		params.Set("error", "Deletion requires confirmation")
		keepExpand()
		c.Redirect(http.StatusFound, "/?"+params.Encode())
		return
	}

	err := h.console.Delete(ctx, applicationID)
	switch {
	case errors.Is(err, service.ErrDeleteInFlight):
		params.Set("error", "A delete for this application is already in progress")
		keepExpand()
	case err != nil:
		logger.Error(ctx, "failed to delete application", "application_id", applicationID, "error", err)
		params.Set("error", "Error deleting application")
		keepExpand()
	default:
		logger.Info(ctx, "application deleted", "application_id", applicationID)
		params.Set("notice", "Application deleted successfully")
		if expand != "" && expand != recordID {
			params.Set("expand", expand)
		}
	}

	c.Redirect(http.StatusFound, "/?"+params.Encode())
}

// Download streams a stored file from the backend to the browser with a
// suggested filename of the form {prefix}-{applicationId}.
func (h *ApplicationHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	applicationID := c.Param("id")

	kind, ok := fileKinds[c.Param("kind")]
	if !ok {
		c.String(http.StatusNotFound, "Unknown file kind %q", c.Param("kind"))
		return
	}

	app, found := h.console.Find(applicationID)
	if !found {
		c.String(http.StatusNotFound, "Application %s not found", applicationID)
		return
	}

	storedPath := kind.path(&app)
	if storedPath == "" {
		c.String(http.StatusNotFound, "File not uploaded")
		return
	}

	body, contentType, length, err := h.backend.FetchFile(ctx, storedPath)
	if err != nil {
		logger.Error(ctx, "failed to download file", "application_id", applicationID, "path", storedPath, "error", err)
		c.String(http.StatusBadGateway, "Error downloading file from backend")
		return
	}
	defer body.Close()

	filename := fmt.Sprintf("%s-%s", kind.prefix, applicationID)
	c.DataFromReader(http.StatusOK, length, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}
