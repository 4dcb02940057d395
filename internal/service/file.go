package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"invdash/internal/model"
	"invdash/internal/repository"
	"invdash/internal/storage"
	"invdash/internal/validation"
)

// AllCategories disables the category filter of ListByCategory.
const AllCategories = "all"

// ErrNoBlobStore is returned by Download when no object store is configured.
var ErrNoBlobStore = errors.New("blob storage is not configured")

// UploadInput describes one uploaded file.
type UploadInput struct {
	Body        io.Reader
	Name        string
	ContentType string
	// Size is the byte count, or -1 when unknown.
	Size     int64
	Category model.FileCategory
}

// FileService registers uploaded files by category. Only metadata is kept in
// the document; image bytes stay reachable through a preview handle for the
// life of the process, and every file is copied to the blob store when one
// is configured.
type FileService interface {
	Upload(ctx context.Context, in UploadInput) Result[*model.File]
	// Remove deletes the record, then releases its preview handle and stored
	// blob. Cleanup failures are logged only. Removing an unknown id succeeds.
	Remove(ctx context.Context, id int) Ack

	List(ctx context.Context) ([]model.File, error)
	// ListByCategory matches exactly; AllCategories returns every file.
	ListByCategory(ctx context.Context, category string) ([]model.File, error)
	// Search matches name or category, case-insensitively.
	Search(ctx context.Context, query string) ([]model.File, error)
	// CategoryCounts counts files per known category. Unknown categories are
	// not counted.
	CategoryCounts(ctx context.Context) (map[model.FileCategory]int, error)

	Preview(handle string) ([]byte, string, error)
	ReleasePreview(handle string) bool
	// Download resolves the newest stored file called name to a presigned URL,
	// or to an open object stream when presigning is disabled or fails.
	Download(ctx context.Context, name string) (*Download, error)
}

// Download is either a redirect URL or an object stream the caller closes.
type Download struct {
	URL  string
	Body io.ReadCloser
	Info storage.ObjectInfo
}

// FileServiceConfig holds the URL settings of the file service.
type FileServiceConfig struct {
	// BaseURL prefixes the logical path of non-image files.
	BaseURL string
	// PresignExpiry is the lifetime of download URLs. Zero selects the default;
	// a negative value disables presigning and downloads are streamed.
	PresignExpiry time.Duration
}

type fileService struct {
	repo     repository.FileRepository
	blobs    storage.Storage
	previews *storage.Previews
	cfg      FileServiceConfig
	logger   logrus.FieldLogger
}

// NewFileService builds a FileService. blobs may be nil, in which case no
// bytes are kept beyond image previews.
func NewFileService(repo repository.FileRepository, blobs storage.Storage, previews *storage.Previews, cfg FileServiceConfig, logger logrus.FieldLogger) FileService {
	if previews == nil {
		previews = storage.NewPreviews(0, nil)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/api/files/"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}
	return &fileService{
		repo:     repo,
		blobs:    blobs,
		previews: previews,
		cfg:      cfg,
		logger:   loggerOrDiscard(logger).WithField("component", "file_service"),
	}
}

func (s *fileService) Upload(ctx context.Context, in UploadInput) Result[*model.File] {
	if err := validateUpload(in); err != nil {
		return Fail[*model.File](err)
	}

	meta := model.File{
		Name:     in.Name,
		Size:     in.Size,
		Type:     in.ContentType,
		Category: in.Category,
	}

	body, putSize := in.Body, in.Size
	if isImage(in.ContentType) {
		limit := s.previews.Limit()
		r := in.Body
		if limit > 0 {
			r = io.LimitReader(in.Body, limit+1)
		}
		head, err := io.ReadAll(r)
		if err != nil {
			return Fail[*model.File](fmt.Errorf("read upload: %w", err))
		}

		switch {
		case limit == 0 || int64(len(head)) <= limit:
			handle, err := s.previews.Create(bytes.NewReader(head), in.ContentType)
			if err != nil {
				return Fail[*model.File](fmt.Errorf("create preview: %w", err))
			}
			if meta.Size < 0 {
				meta.Size = int64(len(head))
			}
			meta.URL = handle
			meta.Preview = handle
			body, putSize = bytes.NewReader(head), int64(len(head))
		case s.blobs != nil:
			// Too large for a preview; the blob store keeps it.
			meta.URL = s.cfg.BaseURL + in.Name
			body = io.MultiReader(bytes.NewReader(head), in.Body)
		default:
			return Fail[*model.File](fmt.Errorf("create preview: %w: limit %d bytes", storage.ErrPreviewTooLarge, limit))
		}
	} else {
		meta.URL = s.cfg.BaseURL + in.Name
	}
	if meta.Size < 0 {
		meta.Size = 0
	}

	if s.blobs != nil {
		meta.BlobKey = blobKey(in.Name)
		_, err := s.blobs.Put(ctx, meta.BlobKey, body, storage.PutObjectOptions{
			Size:        putSize,
			ContentType: in.ContentType,
			Metadata:    map[string]string{"category": string(in.Category)},
		})
		if err != nil {
			s.releaseHandle(meta.URL)
			return Fail[*model.File](fmt.Errorf("upload to storage: %w", err))
		}
	}

	created, err := s.repo.CreateFile(ctx, meta)
	if err != nil {
		s.releaseHandle(meta.URL)
		if meta.BlobKey != "" {
			if delErr := s.blobs.Delete(ctx, meta.BlobKey); delErr != nil {
				s.logger.WithError(delErr).WithField("key", meta.BlobKey).Error("rollback of stored blob failed")
				return Fail[*model.File](fmt.Errorf("save file record: %w; rollback delete failed: %v", err, delErr))
			}
		}
		return Fail[*model.File](fmt.Errorf("save file record: %w", err))
	}

	s.logger.WithFields(logrus.Fields{
		"file_id":  created.ID,
		"category": created.Category,
		"size":     created.Size,
	}).Info("file uploaded")
	return Succeed(created)
}

func (s *fileService) Remove(ctx context.Context, id int) Ack {
	files, err := s.repo.ListFiles(ctx)
	if err != nil {
		return Fail[any](err)
	}
	if err := s.repo.DeleteFile(ctx, id); err != nil {
		return Fail[any](err)
	}
	for _, f := range files {
		if f.ID == id {
			s.cleanup(ctx, f)
			break
		}
	}
	return Acked()
}

// cleanup frees what a deleted record pointed at.
func (s *fileService) cleanup(ctx context.Context, f model.File) {
	s.releaseHandle(f.URL)
	s.releaseHandle(f.Preview)
	if s.blobs == nil || f.BlobKey == "" {
		return
	}
	if err := s.blobs.Delete(ctx, f.BlobKey); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"file_id": f.ID,
			"key":     f.BlobKey,
		}).Warn("stored blob left behind after file removal")
	}
}

func (s *fileService) List(ctx context.Context) ([]model.File, error) {
	return s.repo.ListFiles(ctx)
}

func (s *fileService) ListByCategory(ctx context.Context, category string) ([]model.File, error) {
	files, err := s.repo.ListFiles(ctx)
	if err != nil || category == AllCategories {
		return files, err
	}
	return filter(files, func(f model.File) bool { return string(f.Category) == category }), nil
}

func (s *fileService) Search(ctx context.Context, query string) ([]model.File, error) {
	files, err := s.repo.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	return filter(files, func(f model.File) bool {
		return containsFold(f.Name, query) || containsFold(string(f.Category), query)
	}), nil
}

func (s *fileService) CategoryCounts(ctx context.Context) (map[model.FileCategory]int, error) {
	files, err := s.repo.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.FileCategory]int, len(model.FileCategories))
	for _, c := range model.FileCategories {
		counts[c] = 0
	}
	for _, f := range files {
		if f.Category.Known() {
			counts[f.Category]++
		}
	}
	return counts, nil
}

func (s *fileService) Preview(handle string) ([]byte, string, error) {
	return s.previews.Open(handle)
}

func (s *fileService) ReleasePreview(handle string) bool {
	return s.previews.Release(handle)
}

func (s *fileService) Download(ctx context.Context, name string) (*Download, error) {
	if s.blobs == nil {
		return nil, ErrNoBlobStore
	}
	files, err := s.repo.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	var key string
	newest := 0
	for _, f := range files {
		if f.Name == name && f.BlobKey != "" && f.ID > newest {
			key, newest = f.BlobKey, f.ID
		}
	}
	if key == "" {
		return nil, fmt.Errorf("stored file %q: %w", name, repository.ErrNotFound)
	}

	if s.cfg.PresignExpiry > 0 {
		u, err := s.blobs.PresignGet(ctx, key, s.cfg.PresignExpiry)
		if err == nil {
			return &Download{URL: u}, nil
		}
		s.logger.WithError(err).WithField("key", key).Warn("presign failed, streaming object")
	}

	body, info, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get from storage: %w", err)
	}
	return &Download{Body: body, Info: info}, nil
}

func (s *fileService) releaseHandle(url string) {
	if storage.IsHandle(url) {
		s.previews.Release(url)
	}
}

func validateUpload(in UploadInput) error {
	if in.Body == nil {
		return validation.Field("file", "file is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return validation.Field("name", "name is required")
	}
	if !in.Category.Known() {
		return validation.Field("category", fmt.Sprintf("category %q is not one of %s", in.Category, categoryList()))
	}
	return nil
}

func categoryList() string {
	names := make([]string, len(model.FileCategories))
	for i, c := range model.FileCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// blobKey is unique per upload so records sharing a name never share bytes.
func blobKey(name string) string {
	return uuid.NewString() + "/" + name
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
