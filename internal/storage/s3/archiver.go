package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/export"
)

const (
	archivePrefix         = "proposals"
	archiveFilePrefix     = "signed-"
	errRenderSnapshotFmt  = "failed to render snapshot for proposal %d: %w"
	errArchiveSnapshotFmt = "failed to archive proposal %d: %w"
)

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectKey, contentType string, body io.ReadSeeker) error
}

// Archiver uploads a snapshot of each fully signed proposal to
// proposals/<id>/signed-<unix><ext>.
type Archiver struct {
	client   objectPutter
	bucket   string
	renderer export.Renderer
	now      func() time.Time
}

func NewArchiver(client objectPutter, bucket string, renderer export.Renderer) *Archiver {
	return &Archiver{
		client:   client,
		bucket:   bucket,
		renderer: renderer,
		now:      time.Now,
	}
}

func (a *Archiver) Archive(ctx context.Context, p *proposal.Proposal) error {
	now := a.now()

	var buf bytes.Buffer
	if err := a.renderer.Render(ctx, &buf, export.NewDocument(p, now)); err != nil {
		return fmt.Errorf(errRenderSnapshotFmt, p.ID, err)
	}

	key := ObjectKey(p.ID, now, a.renderer.FileExtension())
	if err := a.client.PutObject(ctx, a.bucket, key, a.renderer.ContentType(), bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf(errArchiveSnapshotFmt, p.ID, err)
	}

	return nil
}

// ObjectKey returns where the snapshot of proposal id taken at signedAt lives.
func ObjectKey(id int64, signedAt time.Time, extension string) string {
	folder := BuildObjectKey(archivePrefix, strconv.FormatInt(id, 10))
	return BuildObjectKey(folder, archiveFilePrefix+strconv.FormatInt(signedAt.Unix(), 10)+extension)
}

// NoopArchiver is used when no archive bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, *proposal.Proposal) error {
	return nil
}
