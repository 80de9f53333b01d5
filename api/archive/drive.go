package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"ScreenWatch/api/config"
	"ScreenWatch/api/logx"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

var logger = logx.GetScope("archive")

// DriveArchiver uploads into one Google Drive folder and shares each file
// with anyone holding the link.
type DriveArchiver struct {
	srv      *drive.Service
	folderID string
}

// NewDriveArchiver builds a Drive client from the configured OAuth client and
// refresh token. The token source refreshes access tokens on demand.
func NewDriveArchiver(ctx context.Context, cfg *config.Config) (*DriveArchiver, error) {
	d := cfg.Archive.Drive
	if d.ClientID == "" || d.ClientSecret == "" || d.RefreshToken == "" {
		return nil, ErrNotConnected
	}
	if d.FolderID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_FOLDER_ID is not set", ErrFolderNotFound)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     d.ClientID,
		ClientSecret: d.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveScope},
	}
	ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: d.RefreshToken})

	srv, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	return &DriveArchiver{srv: srv, folderID: d.FolderID}, nil
}

func (a *DriveArchiver) Upload(ctx context.Context, data []byte, fileName string) (*Object, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	if err := a.verifyFolder(ctx); err != nil {
		return nil, err
	}

	file, err := a.srv.Files.Create(&drive.File{
		Name:     fileName,
		Parents:  []string{a.folderID},
		MimeType: "image/png",
	}).
		Media(bytes.NewReader(data), googleapi.ContentType("image/png")).
		SupportsAllDrives(true).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyDriveError(err)
	}

	_, err = a.srv.Permissions.Create(file.Id, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		// the file exists, it is just not public
		logger.Warn("failed to share archived screenshot",
			zap.String("file_id", file.Id),
			zap.Error(err),
		)
	}

	return &Object{ID: file.Id, URL: DriveViewURL(file.Id)}, nil
}

func (a *DriveArchiver) verifyFolder(ctx context.Context) error {
	folder, err := a.srv.Files.Get(a.folderID).
		SupportsAllDrives(true).
		Fields("id, name, mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return classifyDriveError(err)
	}
	if folder.MimeType != folderMimeType {
		return fmt.Errorf("%w: %s is a %s", ErrFolderNotFound, a.folderID, folder.MimeType)
	}
	return nil
}

// DriveViewURL is the direct link served for an archived file.
func DriveViewURL(fileID string) string {
	return "https://drive.google.com/uc?id=" + fileID
}

func classifyDriveError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrNotConnected, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrFolderNotFound, err)
		}
	}
	return err
}
