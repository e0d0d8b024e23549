package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidvault/video-vault/internal/api/metrics"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// VideoHandler handles the viewer catalog and the admin video surface.
type VideoHandler struct {
	videos ports.VideoService
}

func NewVideoHandler(videos ports.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// ListPublished returns the catalog visible to authenticated viewers.
//
// @Summary      List published videos
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Video
// @Router       /videos [get]
func (h *VideoHandler) ListPublished(c echo.Context) error {
	videos, err := h.videos.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, videos)
}

// PlaybackURL issues a short-lived presigned URL for streaming one video.
//
// @Summary      Get a playback URL
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Video ID"
// @Success      200  {object}  playbackURLResponse
// @Failure      404  {object}  map[string]string
// @Router       /videos/{id}/url [get]
func (h *VideoHandler) PlaybackURL(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	url, err := h.videos.PlaybackURL(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.PlaybackURLsIssuedTotal.Inc()
	return c.JSON(http.StatusOK, playbackURLResponse{URL: url})
}

// ListAll returns every video, published or not.
//
// @Summary      List all videos
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Video
// @Failure      403  {object}  map[string]string
// @Router       /admin/videos [get]
func (h *VideoHandler) ListAll(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	videos, err := h.videos.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, videos)
}

// Upload accepts a multipart video upload and stores blob plus metadata.
//
// @Summary      Upload a video
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file         formData  file    true   "Video file"
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  false  "Description"
// @Param        published    formData  bool    false  "Publish immediately"
// @Success      201  {object}  domain.Video
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/videos [post]
func (h *VideoHandler) Upload(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer src.Close()

	video, err := h.videos.Upload(c.Request().Context(), actor, ports.UploadVideoInput{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      src,
		IsPublished:  c.FormValue("published") == "true",
	}, clientMeta(c))
	if err != nil {
		return err
	}

	metrics.VideosUploadedTotal.WithLabelValues(video.MimeType).Inc()
	metrics.VideoUploadBytes.Observe(float64(video.Size))

	return c.JSON(http.StatusCreated, video)
}

// Update applies a partial metadata update, including publish state.
//
// @Summary      Update video metadata
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Video ID"
// @Param        body  body      updateVideoRequest  true  "Fields to change"
// @Success      200   {object}  domain.Video
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/videos/{id} [put]
func (h *VideoHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	video, err := h.videos.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateVideoInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, video)
}

// Delete removes a video's blob and metadata record.
//
// @Summary      Delete a video
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Video ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/videos/{id} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.videos.Delete(c.Request().Context(), actor, c.Param("id"), clientMeta(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "video deleted"})
}

// Stats returns the admin dashboard aggregates.
//
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      403  {object}  map[string]string
// @Router       /admin/stats [get]
func (h *VideoHandler) Stats(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	stats, err := h.videos.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
