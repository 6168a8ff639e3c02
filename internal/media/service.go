// Package media issues short-lived signed upload URLs for listing
// images and verification documents.
package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
)

// Kind scopes an upload to the surface it belongs to.
type Kind string

const (
	KindPostImage            Kind = "post"
	KindVerificationDocument Kind = "verification"
)

type gcsSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// Service exposes upload presign semantics.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
}

type service struct {
	gcs            gcsSigner
	bucket         string
	uploadTTL      time.Duration
	maxUploadBytes int64
}

// NewService constructs a media service backed by the provided GCS signer.
func NewService(gcsClient gcsSigner, bucket string, uploadTTL time.Duration, maxUploadMB int) (Service, error) {
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	return &service{
		gcs:            gcsClient,
		bucket:         bucket,
		uploadTTL:      uploadTTL,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      Kind
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the signed PUT URL and the public object URL
// the client should store once the upload completes.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPutURL string    `json:"signed_put_url"`
	PublicURL    string    `json:"public_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

var mimeTypesByKind = map[Kind][]string{
	KindPostImage:            {"image/png", "image/jpeg", "image/webp"},
	KindVerificationDocument: {"application/pdf", "image/png", "image/jpeg"},
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	allowed, ok := mimeTypesByKind[input.Kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must not exceed %d bytes", s.maxUploadBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(allowed, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for media kind")
	}

	objectKey := buildObjectKey(input.Kind, userID, fileName)
	expiresAt := time.Now().Add(s.uploadTTL)

	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPutURL: signedURL,
		PublicURL:    fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectKey),
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

func isAllowedMime(allowed []string, mimeType string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildObjectKey(kind Kind, userID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	id := uuid.New()
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("%s/%s/%s/%s", kind, userID, id, cleanName)
}

func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-._")
}
