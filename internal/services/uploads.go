package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type UploadKind string

const (
	UploadGeneric UploadKind = ""
	UploadPosts   UploadKind = "posts"
	UploadStories UploadKind = "stories"
)

var (
	imageTypes = []string{"image/jpeg", "image/png"}
	videoTypes = []string{"video/mp4", "video/webm", "video/x-matroska"}
)

// allowed lists the MIME types a kind accepts. Posts take images only.
func (k UploadKind) allowed() []string {
	if k == UploadPosts {
		return imageTypes
	}
	return append(append([]string{}, imageTypes...), videoTypes...)
}

type UploadResult struct {
	FileURL   string           `json:"fileUrl"`
	MediaType models.MediaType `json:"media_type"`
	MimeType  string           `json:"mime_type"`
	Size      int64            `json:"size"`
}

// MirrorQueue accepts files for background copying.
type MirrorQueue interface {
	Enqueue(job MirrorJob) bool
}

type UploadService struct {
	dir      string
	maxBytes int64
	mirror   MirrorQueue
	now      Clock
	log      logger.Logger
}

func NewUploadService(dir string, maxBytes int64, mirror MirrorQueue, log logger.Logger) *UploadService {
	return &UploadService{
		dir:      dir,
		maxBytes: maxBytes,
		mirror:   mirror,
		now:      systemClock,
		log:      log.WithComponent("UploadService"),
	}
}

// Save 保存上传文件到本地目录并返回可访问的 URL。
// The content type is sniffed from the bytes; the client's claim is ignored.
func (s *UploadService) Save(ctx context.Context, kind UploadKind, src io.Reader) (*UploadResult, error) {
	limited := io.LimitReader(src, s.maxBytes+1)

	head := make([]byte, 3072)
	n, err := io.ReadFull(limited, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.Internal(err)
	}
	head = head[:n]
	if n == 0 {
		return nil, apperr.Validation("file is empty")
	}

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), kind.allowed()...) {
		return nil, apperr.Newf(apperr.KindValidation, "unsupported file type %s", mtype.String())
	}

	name := fmt.Sprintf("%d_%s%s", s.now().UnixMilli(), uuid.NewString(), mtype.Extension())
	dir := filepath.Join(s.dir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Internal(err)
	}
	dst := filepath.Join(dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), limited))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return nil, apperr.Internal(err)
	}
	if written > s.maxBytes {
		os.Remove(dst)
		return nil, apperr.Newf(apperr.KindValidation, "file exceeds %d MB", s.maxBytes>>20)
	}

	media := models.MediaImage
	if mimetype.EqualsAny(mtype.String(), videoTypes...) {
		media = models.MediaVideo
	}

	if s.mirror != nil {
		s.mirror.Enqueue(MirrorJob{Path: dst, Name: name, MimeType: mtype.String()})
	}

	return &UploadResult{
		FileURL:   path.Join("/uploads", string(kind), name),
		MediaType: media,
		MimeType:  mtype.String(),
		Size:      written,
	}, nil
}
