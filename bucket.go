package ninjacatalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/option"
)

// UploadToBucket copies a local export to gs://bucket/catalog/<site>/<file name>.
func (app *Crawler) UploadToBucket(ctx context.Context, sourceFileName string) error {
	bucketName := app.Config.EnvString("GCS_BUCKET")
	if bucketName == "" {
		return fmt.Errorf("GCS_BUCKET environment variable is not set")
	}
	startTime := time.Now()
	destination := bucketObjectName(app.Name, sourceFileName)

	var clientOptions []option.ClientOption
	if credentials := app.Config.EnvString("GCP_CREDENTIALS_PATH"); credentials != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credentials))
	}
	if err := uploadToBucket(ctx, bucketName, sourceFileName, destination, clientOptions...); err != nil {
		return err
	}
	app.Logger.Info("File %s uploaded to bucket successfully. Time taken: %s", sourceFileName, time.Since(startTime))
	return nil
}

func bucketObjectName(siteName, sourceFileName string) string {
	return path.Join("catalog", siteName, path.Base(sourceFileName))
}

func uploadToBucket(ctx context.Context, bucketName, sourceFileName, destinationFileName string, opts ...option.ClientOption) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	file, err := os.Open(sourceFileName)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", sourceFileName, err)
	}
	defer file.Close()

	writer := client.Bucket(bucketName).Object(destinationFileName).NewWriter(ctx)
	writer.ContentType = detectContentType(sourceFileName)

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return fmt.Errorf("failed to copy file data to bucket %s: %w", bucketName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer for file %s: %w", destinationFileName, err)
	}
	return nil
}

// detectContentType falls back to a binary stream when detection fails.
func detectContentType(filePath string) string {
	mime, err := mimetype.DetectFile(filePath)
	if err != nil {
		return "application/octet-stream"
	}
	return mime.String()
}
