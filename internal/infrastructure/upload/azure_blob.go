package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/google/uuid"

	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// AzureBlobStorage guarda en un contenedor de Azure Blob Storage.
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	log           *logger.Logger
}

// NewAzureBlobStorage crea el cliente y el contenedor si no existe.
func NewAzureBlobStorage(connectionString, containerName string, log *logger.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("crear cliente blob: %w", err)
	}
	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("crear contenedor: %w", err)
	}
	log.Info().Str("container", containerName).Msg("Azure Blob Storage inicializado")
	return &AzureBlobStorage{client: client, containerName: containerName, log: log}, nil
}

func (s *AzureBlobStorage) Upload(ctx context.Context, filename, contentType string, data io.Reader) (string, error) {
	blobName := uuid.New().String() + filepath.Ext(filename)
	_, err := s.client.UploadStream(ctx, s.containerName, blobName, data, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", fmt.Errorf("subir blob: %w", err)
	}
	s.log.Info().Str("blob", blobName).Str("content_type", contentType).Msg("imagen subida")
	return strings.TrimRight(s.client.URL(), "/") + "/" + s.containerName + "/" + blobName, nil
}
