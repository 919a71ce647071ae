package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/storage"
)

type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

type UploadHandler struct {
	uploader ImageUploader
	maxBytes int64
	log      *zap.Logger
}

// NewUploadHandler aceita uploader nil: o endpoint responde 503.
func NewUploadHandler(uploader ImageUploader, maxBytes int64, log *zap.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes, log: log}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		httperr.ServiceUnavailable(c, "upload_disabled", "Upload de imagens indisponível.")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "file_too_large", "Arquivo muito grande.")
			return
		}
		httperr.BadRequest(c, "no_file", "Nenhum arquivo enviado.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "no_file", "Nenhum arquivo enviado.")
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			httperr.BadRequest(c, "invalid_image", "Formato de imagem não suportado.")
			return
		}
		h.log.Error("image upload failed", zap.Error(err))
		httperr.Internal(c, "upload_failed", "Erro ao enviar imagem.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
