package dbmongo

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campuslink/internal/common"
)

// MediaStorage streams message attachments in and out of GridFS. The
// hex ObjectID it hands back is what messages carry as attachment_ref.
type MediaStorage struct {
	gridFS *gridfs.Bucket
}

func NewMediaStorage(mongoClient *MongoClient) *MediaStorage {
	return &MediaStorage{
		gridFS: mongoClient.GridFS,
	}
}

type MediaFile struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	Size       int64            `json:"size"`
	Kind       common.MediaKind `json:"kind"`
	MimeType   string           `json:"mime_type"`
	UploadedBy uint64           `json:"uploaded_by"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

func (ms *MediaStorage) UploadFile(ctx context.Context, filename, mimeType string, uploaderID uint64, content io.Reader) (*MediaFile, error) {
	kind := common.DetectMediaKind(mimeType)

	metadata := bson.M{
		"kind":        kind.String(),
		"mime_type":   mimeType,
		"uploaded_by": int64(uploaderID),
		"uploaded_at": time.Now(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := ms.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer stream.Close()

	size, err := io.Copy(stream, content)
	if err != nil {
		return nil, fmt.Errorf("file copy failed: %w", err)
	}

	return &MediaFile{
		ID:         stream.FileID.(primitive.ObjectID).Hex(),
		Filename:   filename,
		Size:       size,
		Kind:       kind,
		MimeType:   mimeType,
		UploadedBy: uploaderID,
		UploadedAt: time.Now(),
	}, nil
}

func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.Reader, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file ID: %w", err)
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	mediaFile := &MediaFile{
		ID:         fileID,
		Filename:   fileInfo.Name,
		Size:       fileInfo.Length,
		Kind:       common.MediaKind(stringFromMeta(metadata, "kind")),
		MimeType:   stringFromMeta(metadata, "mime_type"),
		UploadedBy: uint64(int64FromMeta(metadata, "uploaded_by")),
		UploadedAt: fileInfo.UploadDate,
	}

	return stream, mediaFile, nil
}

func (ms *MediaStorage) DeleteFile(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	return ms.gridFS.Delete(objectID)
}

func stringFromMeta(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func int64FromMeta(m bson.M, key string) int64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
