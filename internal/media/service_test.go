package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
)

type stubSigner struct {
	lastBucket      string
	lastObject      string
	lastContentType string
	err             error
}

func (s *stubSigner) SignedURL(bucket, object, contentType string, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastBucket = bucket
	s.lastObject = object
	s.lastContentType = contentType
	return "https://signed.example/" + object, nil
}

func newTestService(t *testing.T) (Service, *stubSigner) {
	t.Helper()
	signer := &stubSigner{}
	svc, err := NewService(signer, "educart-media", 15*time.Minute, 25)
	require.NoError(t, err)
	return svc, signer
}

func TestPresignUploadPostImage(t *testing.T) {
	svc, signer := newTestService(t)
	userID := uuid.New()

	out, err := svc.PresignUpload(context.Background(), userID, PresignInput{
		Kind:      KindPostImage,
		MimeType:  "image/jpeg",
		FileName:  "My Bike Photo.JPG",
		SizeBytes: 2 << 20,
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out.ObjectKey, "post/"+userID.String()+"/"))
	require.True(t, strings.HasSuffix(out.ObjectKey, "/my-bike-photo.jpg"))
	require.Equal(t, "educart-media", signer.lastBucket)
	require.Equal(t, "image/jpeg", signer.lastContentType)
	require.Equal(t, "https://signed.example/"+out.ObjectKey, out.SignedPutURL)
	require.Equal(t, "https://storage.googleapis.com/educart-media/"+out.ObjectKey, out.PublicURL)
	require.False(t, out.ExpiresAt.IsZero())
}

func TestPresignUploadRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	cases := []struct {
		name  string
		input PresignInput
	}{
		{"unknown kind", PresignInput{Kind: "sticker", MimeType: "image/png", FileName: "a.png", SizeBytes: 10}},
		{"missing file name", PresignInput{Kind: KindPostImage, MimeType: "image/png", SizeBytes: 10}},
		{"zero size", PresignInput{Kind: KindPostImage, MimeType: "image/png", FileName: "a.png"}},
		{"oversized", PresignInput{Kind: KindPostImage, MimeType: "image/png", FileName: "a.png", SizeBytes: 30 << 20}},
		{"gif for post", PresignInput{Kind: KindPostImage, MimeType: "image/gif", FileName: "a.gif", SizeBytes: 10}},
		{"video for verification", PresignInput{Kind: KindVerificationDocument, MimeType: "video/mp4", FileName: "a.mp4", SizeBytes: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PresignUpload(context.Background(), userID, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestPresignUploadAllowsPDFDocuments(t *testing.T) {
	svc, _ := newTestService(t)

	out, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		Kind:      KindVerificationDocument,
		MimeType:  "application/pdf",
		FileName:  "enrollment form.pdf",
		SizeBytes: 1 << 20,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out.ObjectKey, "verification/"))
	require.True(t, strings.HasSuffix(out.ObjectKey, "/enrollment-form.pdf"))
}
