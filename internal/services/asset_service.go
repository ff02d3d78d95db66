// internal/services/asset_service.go
package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/repository"
)

var (
	videoExtensions = []string{".mp4", ".mov", ".webm", ".m4v"}
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// AssetService attaches uploaded creative files to drafts.
type AssetService struct {
	drafts  repository.DraftStore
	assets  repository.AssetStore
	users   *UserService
	storage ObjectStorage
	options UploadOptions
}

type AssetUpload struct {
	File   io.Reader
	Header *multipart.FileHeader
	Name   string
}

func NewAssetService(drafts repository.DraftStore, assets repository.AssetStore, users *UserService, storage ObjectStorage, options UploadOptions) *AssetService {
	return &AssetService{
		drafts:  drafts,
		assets:  assets,
		users:   users,
		storage: storage,
		options: options,
	}
}

// Upload stores the file and records it as a creative asset of the draft.
func (s *AssetService) Upload(ctx context.Context, identity Identity, draftID uuid.UUID, upload AssetUpload) (*AssetDescriptor, error) {
	if err := identity.check(); err != nil {
		return nil, err
	}
	user, err := s.users.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}
	if err := identity.canWrite(draft); err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(ctx, upload.File, upload.Header, s.options)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return nil, newError(KindBadRequest, i18n.KeyFileTooLarge, err)
		case errors.Is(err, ErrFileTypeNotAllowed):
			return nil, newError(KindBadRequest, i18n.KeyAssetUploadFailed, err)
		default:
			return nil, newError(KindUnhandled, i18n.KeyAssetUploadFailed, err)
		}
	}

	name := strings.TrimSpace(upload.Name)
	if name == "" {
		name = upload.Header.Filename
	}
	size := result.Size
	asset := &models.CreativeAsset{
		DraftID:  &draft.ID,
		Name:     name,
		FileName: upload.Header.Filename,
		Type:     assetTypeOf(upload.Header.Filename),
		URL:      result.URL,
		FileSize: &size,
		UserID:   &user.ID,
	}

	log := logrus.WithFields(logrus.Fields{
		"draft_id": draft.ID.String(),
		"org_id":   identity.OrganizationID,
		"key":      result.Key,
	})

	if err := s.assets.Create(ctx, asset); err != nil {
		log.WithError(err).Error("Failed to record creative asset")
		if delErr := s.storage.DeleteFile(ctx, result.Key); delErr != nil {
			logUploadCleanupFailure(result.Key, delErr)
		}
		return nil, classify(err, i18n.KeyCampaignNotFound)
	}

	log.WithField("asset_id", asset.ID).Info("Creative asset uploaded")
	desc := describeAsset(asset)
	return &desc, nil
}

func assetTypeOf(filename string) models.AssetType {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, image := range imageExtensions {
		if ext == image {
			return models.AssetTypeImage
		}
	}
	return models.AssetTypeVideo
}
