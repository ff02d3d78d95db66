package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/campaign-wizard/internal/config"
	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
)

type mockObjectStorage struct {
	mock.Mock
}

func (m *mockObjectStorage) UploadFile(ctx context.Context, file io.Reader, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	args := m.Called(header.Filename, options.Folder)
	if result, ok := args.Get(0).(*UploadResult); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockObjectStorage) DeleteFile(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func upload(name string) AssetUpload {
	return AssetUpload{
		File:   strings.NewReader("bytes"),
		Header: &multipart.FileHeader{Filename: name, Size: 5},
	}
}

func TestAssetUploadRecordsAsset(t *testing.T) {
	f := newFixture(nil)
	d := f.draft(nil)

	storage := &mockObjectStorage{}
	storage.On("UploadFile", "cut.mov", "creative-assets").
		Return(&UploadResult{URL: "https://cdn.example.com/creative-assets/k.mov", Key: "creative-assets/k.mov", Size: 5}, nil)

	svc := NewAssetService(f.db.Drafts(), f.db.Assets(), f.users, storage, UploadOptions{Folder: "creative-assets"})
	desc, err := svc.Upload(context.Background(), f.identity, d.ID, upload("cut.mov"))
	require.NoError(t, err)

	assert.Equal(t, "cut.mov", desc.Name)
	assert.Equal(t, string(models.AssetTypeVideo), desc.Type)
	require.NotNil(t, desc.InternalAssetID)

	stored, ok := f.db.Asset(*desc.InternalAssetID)
	require.True(t, ok)
	assert.Equal(t, d.ID, *stored.DraftID)
	assert.Equal(t, f.user.ID, *stored.UserID)
	storage.AssertExpectations(t)
}

func TestAssetUploadImageType(t *testing.T) {
	assert.Equal(t, models.AssetTypeImage, assetTypeOf("poster.PNG"))
	assert.Equal(t, models.AssetTypeVideo, assetTypeOf("clip.webm"))
}

func TestAssetUploadCleansUpWhenRecordFails(t *testing.T) {
	f := newFixture(nil)
	d := f.draft(nil)
	f.db.FailAssetCreate = errors.New("insert failed")

	storage := &mockObjectStorage{}
	storage.On("UploadFile", "cut.mp4", "").Return(&UploadResult{Key: "k.mp4", Size: 5}, nil)
	storage.On("DeleteFile", "k.mp4").Return(nil)

	svc := NewAssetService(f.db.Drafts(), f.db.Assets(), f.users, storage, UploadOptions{})
	_, err := svc.Upload(context.Background(), f.identity, d.ID, upload("cut.mp4"))
	require.Error(t, err)

	storage.AssertCalled(t, "DeleteFile", "k.mp4")
}

func TestAssetUploadErrors(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		f := newFixture(nil)
		d := f.draft(nil)
		storage := &mockObjectStorage{}
		storage.On("UploadFile", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: 9 bytes", ErrFileTooLarge))

		svc := NewAssetService(f.db.Drafts(), f.db.Assets(), f.users, storage, UploadOptions{})
		_, err := svc.Upload(context.Background(), f.identity, d.ID, upload("cut.mp4"))
		assertKind(t, err, KindBadRequest, i18n.KeyFileTooLarge)
	})

	t.Run("other organization", func(t *testing.T) {
		f := newFixture(nil)
		d := f.draft(func(d *models.CampaignDraft) { d.OrganizationID = strPtr("org_2") })
		storage := &mockObjectStorage{}

		svc := NewAssetService(f.db.Drafts(), f.db.Assets(), f.users, storage, UploadOptions{})
		_, err := svc.Upload(context.Background(), f.identity, d.ID, upload("cut.mp4"))
		assertKind(t, err, KindForbidden, i18n.KeyCampaignForbidden)
		storage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
	})
}

func TestStorageServiceLocalDisk(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{LocalDir: dir, PublicBaseURL: "http://files.test/", MaxUploadMB: 1},
	})
	require.NoError(t, err)

	options := svc.CreativeAssetUploadOptions()
	result, err := svc.UploadFile(context.Background(), strings.NewReader("frame"), &multipart.FileHeader{Filename: "a.jpg", Size: 5}, options)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "creative-assets/"))
	assert.Equal(t, "http://files.test/uploads/"+result.Key, result.URL)

	path := filepath.Join(dir, filepath.FromSlash(result.Key))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frame", string(content))

	require.NoError(t, svc.DeleteFile(context.Background(), result.Key))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, err = svc.UploadFile(context.Background(), strings.NewReader("x"), &multipart.FileHeader{Filename: "a.exe", Size: 1}, options)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	_, err = svc.UploadFile(context.Background(), strings.NewReader("x"), &multipart.FileHeader{Filename: "a.mp4", Size: 2 << 20}, options)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
