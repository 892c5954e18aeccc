package s3blob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// reportContentType is the media type of uploaded workbooks.
const reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Archiver implements domain.ReportArchiver: it uploads each run's workbook
// under {prefix}/{yyyy}/{mm}/{filename}.
type Archiver struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   *slog.Logger
}

// NewArchiver creates an Archiver uploading to the client's bucket under the
// given key prefix.
func NewArchiver(c *Client, prefix string, logger *slog.Logger) *Archiver {
	return &Archiver{
		uploader: manager.NewUploader(c.S3()),
		bucket:   c.Bucket(),
		prefix:   prefix,
		logger:   logger.With(slog.String("component", "archiver")),
	}
}

// ArchiveReport uploads the workbook at filePath and returns the object key.
func (a *Archiver) ArchiveReport(ctx context.Context, report *domain.RunReport, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("s3blob: open report: %w", err)
	}
	defer f.Close()

	key := path.Join(a.prefix, report.StartedAt.Format("2006/01"), filepath.Base(filePath))

	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(reportContentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3blob: upload report %s: %w", key, err)
	}

	a.logger.Info("report archived",
		slog.String("run_id", report.RunID),
		slog.String("bucket", a.bucket),
		slog.String("key", key),
	)

	return key, nil
}

// Compile-time interface check.
var _ domain.ReportArchiver = (*Archiver)(nil)
