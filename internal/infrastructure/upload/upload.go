// Package upload guarda imágenes subidas y devuelve la URL con que se referencian.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/pkg/config"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// Storage destino de las imágenes.
type Storage interface {
	// Upload guarda data y devuelve la URL pública.
	Upload(ctx context.Context, filename, contentType string, data io.Reader) (string, error)
}

// Image imagen validada lista para guardarse.
type Image struct {
	Name        string
	ContentType string
	Extension   string
	Data        []byte
}

// ReadImage lee hasta maxBytes de r y verifica por contenido que sea una imagen.
func ReadImage(name string, r io.Reader, maxBytes int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("leer imagen: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: la imagen supera %d bytes", domain.ErrInvalidInput, maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, mt.String())
	}
	return &Image{Name: name, ContentType: mt.String(), Extension: mt.Extension(), Data: data}, nil
}

// DataURI codifica la imagen como data URI (base64).
func (img *Image) DataURI() string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Reader devuelve un lector sobre los bytes.
func (img *Image) Reader() io.Reader {
	return bytes.NewReader(img.Data)
}

// NewStorage construye el destino configurado.
func NewStorage(cfg config.UploadConfig, log *logger.Logger) (Storage, error) {
	switch cfg.Mode {
	case "", "inline":
		return InlineStorage{}, nil
	case "local":
		return NewLocalStorage(cfg.LocalBasePath, cfg.PublicBaseURL)
	case "azure":
		if cfg.AzureConnectionString == "" {
			return nil, fmt.Errorf("UPLOAD_AZURE_CONNECTION_STRING requerido para modo azure")
		}
		return NewAzureBlobStorage(cfg.AzureConnectionString, cfg.AzureContainer, log)
	default:
		return nil, fmt.Errorf("modo de upload no soportado: %s", cfg.Mode)
	}
}

// InlineStorage no guarda nada: la URL es el propio data URI.
type InlineStorage struct{}

func (InlineStorage) Upload(ctx context.Context, filename, contentType string, data io.Reader) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
