package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/upload"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// imageField nombre del campo multipart con la imagen.
const imageField = "image"

// UploadHandler recibe imágenes (avatar) y las guarda en el destino configurado.
type UploadHandler struct {
	storage  upload.Storage
	maxBytes int64
	log      *logger.Logger
}

// NewUploadHandler construye el handler.
func NewUploadHandler(storage upload.Storage, maxBytes int64, log *logger.Logger) *UploadHandler {
	return &UploadHandler{storage: storage, maxBytes: maxBytes, log: log}
}

// UploadResponse URL pública de la imagen subida.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary      Subir imagen
// @Tags         upload
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Imagen"
// @Success      200    {object}  UploadResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      415    {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	img, ok, err := readImageForm(c, h.maxBytes, h.log)
	if !ok {
		return err
	}
	filename := uuid.NewString() + img.Extension
	url, err := h.storage.Upload(c.UserContext(), filename, img.ContentType, img.Reader())
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("subir imagen: %w", err))
	}
	return c.JSON(UploadResponse{URL: url})
}

// readImageForm lee y valida la imagen del campo multipart "image".
func readImageForm(c *fiber.Ctx, maxBytes int64, log *logger.Logger) (*upload.Image, bool, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo 'image' requerido"})
	}
	if fh.Size > maxBytes {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: fmt.Sprintf("la imagen supera %d bytes", maxBytes)})
	}
	f, err := fh.Open()
	if err != nil {
		return nil, false, respondError(c, log, fmt.Errorf("abrir archivo: %w", err))
	}
	defer f.Close()
	img, err := upload.ReadImage(fh.Filename, f, maxBytes)
	if err != nil {
		return nil, false, respondError(c, log, err)
	}
	return img, true, nil
}
