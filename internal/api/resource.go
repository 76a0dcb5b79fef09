package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/filestore"
	"github.com/lalith-99/clubhub/internal/middleware"
	"github.com/lalith-99/clubhub/internal/models"
	"go.uber.org/zap"
)

// maxUploadSize caps a single resource file.
const maxUploadSize = 25 << 20

// ResourceHandler serves shared study material. Uploaded bytes go to the
// file store; the state only keeps the URL they were stored under.
type ResourceHandler struct {
	files  filestore.Store
	logger *zap.Logger
}

func NewResourceHandler(files filestore.Store, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{files: files, logger: logger}
}

// List handles GET /v1/resources?category=&search=
func (h *ResourceHandler) List(c *gin.Context) {
	q := app.ResourceQuery{
		Category: models.ResourceCategory(c.Query("category")),
		Search:   c.Query("search"),
	}
	resources, err := middleware.GetWorkspace(c).ClubResources(q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// Upload handles POST /v1/resources. A multipart body carries the file in
// "file" plus title, description, category and tags fields; a JSON body
// references a file_url that already exists.
func (h *ResourceHandler) Upload(c *gin.Context) {
	w := middleware.GetWorkspace(c)
	if w.UserID() == "" {
		respondError(c, h.logger, app.ErrUnauthenticated)
		return
	}
	// Check before storing anything, so rejected uploads leave no file.
	if !w.CanModerate() {
		respondError(c, h.logger, app.ErrForbidden)
		return
	}

	var in app.ResourceInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		url, err := h.store(c)
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
				return
			}
			if errors.Is(err, http.ErrMissingFile) {
				badRequest(c, err)
				return
			}
			respondError(c, h.logger, err)
			return
		}
		in = app.ResourceInput{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Category:    models.ResourceCategory(c.PostForm("category")),
			FileURL:     url,
			Tags:        splitTags(c.PostFormArray("tags")),
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	res, err := w.UploadResource(in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ResourceHandler) store(c *gin.Context) (string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url, err := h.files.Put(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	h.logger.Info("resource file stored", zap.String("url", url), zap.Int64("size", fh.Size))
	return url, nil
}

// splitTags accepts repeated fields and comma-separated lists.
func splitTags(fields []string) []string {
	var tags []string
	for _, f := range fields {
		for _, t := range strings.Split(f, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// Download handles GET /v1/resources/:id/download. The count only moves
// once the content has been fetched.
func (h *ResourceHandler) Download(c *gin.Context) {
	d, err := middleware.GetWorkspace(c).Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(d.Resource.FileURL))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := d.Resource.Title + path.Ext(d.Resource.FileURL)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Header("X-Download-Count", strconv.Itoa(d.Resource.DownloadCount))
	c.Data(http.StatusOK, contentType, d.Content)
}
