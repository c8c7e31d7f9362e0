package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage guarda en disco bajo basePath; las URLs se construyen sobre publicBaseURL.
type LocalStorage struct {
	basePath      string
	publicBaseURL string
}

// NewLocalStorage crea el directorio base si no existe.
func NewLocalStorage(basePath, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &LocalStorage{basePath: basePath, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// BasePath directorio raíz (para servirlo como estático).
func (s *LocalStorage) BasePath() string { return s.basePath }

func (s *LocalStorage) Upload(ctx context.Context, filename, contentType string, data io.Reader) (string, error) {
	fileID := uuid.New().String()
	rel := path.Join(fileID[:2], fileID+filepath.Ext(filename))
	full := filepath.Join(s.basePath, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("crear directorio: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("crear archivo: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("escribir archivo: %w", err)
	}
	return s.publicBaseURL + "/" + rel, nil
}
