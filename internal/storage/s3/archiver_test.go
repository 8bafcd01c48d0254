package s3

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPutter struct {
	bucket      string
	key         string
	contentType string
	body        []byte
	err         error
}

func (r *recordingPutter) PutObject(_ context.Context, bucketName, objectKey, contentType string, body io.ReadSeeker) error {
	r.bucket = bucketName
	r.key = objectKey
	r.contentType = contentType
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	r.body = data
	return r.err
}

func signedProposal(t *testing.T) *proposal.Proposal {
	t.Helper()
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	p, err := proposal.New(proposal.SeedInput(), now)
	require.NoError(t, err)
	p.ID = 12
	require.NoError(t, p.RecordSignature(proposal.RoleNoviq, "data:image/png;base64,AA==", now))
	require.NoError(t, p.RecordSignature(proposal.RoleLicensee, "data:image/png;base64,AQ==", now))
	return p
}

func TestArchiver_UploadsSnapshot(t *testing.T) {
	putter := &recordingPutter{}
	archiver := NewArchiver(putter, "agreements", export.JSONRenderer{})
	archiver.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, archiver.Archive(context.Background(), signedProposal(t)))

	assert.Equal(t, "agreements", putter.bucket)
	assert.Equal(t, "proposals/12/signed-1700000000.json", putter.key)
	assert.Equal(t, export.ContentTypeJSON, putter.contentType)

	var doc export.Document
	require.NoError(t, json.Unmarshal(putter.body, &doc))
	assert.Equal(t, int64(12), doc.ProposalID)
	assert.Equal(t, "signed", doc.Status)
	assert.True(t, doc.Licensee.Signed)
}

func TestArchiver_WrapsUploadError(t *testing.T) {
	putter := &recordingPutter{err: errors.New("access denied")}
	archiver := NewArchiver(putter, "agreements", export.JSONRenderer{})

	err := archiver.Archive(context.Background(), signedProposal(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to archive proposal 12")
}

func TestBuildObjectKey(t *testing.T) {
	assert.Equal(t, "file.json", BuildObjectKey("", "file.json"))
	assert.Equal(t, "a/file.json", BuildObjectKey("a", "file.json"))
	assert.Equal(t, "a/file.json", BuildObjectKey("a/", "file.json"))
}
