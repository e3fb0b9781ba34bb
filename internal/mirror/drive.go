// Package mirror copies uploaded files to secondary storage.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/retry"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Drive uploads files into one Google Drive folder with a service account.
type Drive struct {
	files    *drive.FilesService
	folderID string
	log      logger.Logger
}

// NewDrive 使用 service account 凭证创建 Drive 客户端
func NewDrive(ctx context.Context, credentialsFile, folderID string, log logger.Logger) (*Drive, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Drive{
		files:    svc.Files,
		folderID: folderID,
		log:      log.WithComponent("DriveMirror"),
	}, nil
}

func (d *Drive) Upload(ctx context.Context, localPath, name, mimeType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		// the local file was removed; nothing to mirror
		return retry.Permanent(err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{d.folderID},
	}
	created, err := d.files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		if permanent(err) {
			return retry.Permanent(err)
		}
		return err
	}
	d.log.Debug("file mirrored to drive", "name", name, "drive_id", created.Id)
	return nil
}

// permanent reports client errors that a retry cannot fix.
func permanent(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code >= 400 && gerr.Code < 500 &&
		gerr.Code != http.StatusTooManyRequests && gerr.Code != http.StatusRequestTimeout
}

// Nop discards uploads. Used when no mirror is configured.
type Nop struct{}

func (Nop) Upload(context.Context, string, string, string) error { return nil }
