package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
)

// PNG 1x1 transparente.
var tinyPNG, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestReadImage_DetectaPNG(t *testing.T) {
	img, err := ReadImage("foto.png", bytes.NewReader(tinyPNG), 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.True(t, strings.HasPrefix(img.DataURI(), "data:image/png;base64,"))
}

func TestReadImage_RechazaNoImagenYExceso(t *testing.T) {
	_, err := ReadImage("x.txt", strings.NewReader("hola mundo"), 1024)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)

	_, err = ReadImage("foto.png", bytes.NewReader(tinyPNG), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ReadImage("vacio.png", bytes.NewReader(nil), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInlineStorage_DevuelveDataURI(t *testing.T) {
	url, err := InlineStorage{}.Upload(context.Background(), "a.png", "image/png", bytes.NewReader(tinyPNG))
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(tinyPNG), url)
}

func TestLocalStorage_EscribeArchivo(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "avatar.png", "image/png", bytes.NewReader(tinyPNG))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, got)
}
