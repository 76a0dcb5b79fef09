package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// UploadResource shares a resource in the current club. The newest upload
// goes first. Only admins may upload.
func (w *Workspace) UploadResource(in ResourceInput) (models.Resource, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.FileURL = strings.TrimSpace(in.FileURL)
	if err := validateInput(in); err != nil {
		return models.Resource{}, err
	}

	var res models.Resource
	err := w.write(func(u models.User) error {
		club := w.view.CurrentClubID
		if err := w.moderateLocked(u, club); err != nil {
			return err
		}

		res = models.Resource{
			ID:          w.st.ids.New(),
			Title:       in.Title,
			Description: strings.TrimSpace(in.Description),
			Category:    in.Category,
			FileURL:     in.FileURL,
			UploadedBy:  u,
			ClubID:      club,
			UploadDate:  w.st.clock.Now(),
		}
		if len(in.Tags) > 0 {
			res.Tags = append([]string(nil), in.Tags...)
		}
		if err := w.st.resources.Prepend(res); err != nil {
			return err
		}
		w.st.pub.Publish(realtime.NewEvent(realtime.ResourceCreated, res).InClub(club))
		return nil
	})
	if err != nil {
		return models.Resource{}, err
	}
	w.st.log.Info("resource uploaded", zap.String("resource_id", res.ID), zap.String("club_id", res.ClubID))
	return res.Clone(), nil
}

// Download is a completed resource download.
type Download struct {
	Resource models.Resource
	Content  []byte
}

// Download fetches a resource's content and counts the download once it has
// completed. While the fetch is running the workspace view reports the
// resource as downloading. Concurrent downloads of the same resource from
// one workspace share a single fetch and a single count.
func (w *Workspace) Download(ctx context.Context, resourceID string) (Download, error) {
	v, err, _ := w.st.downloads.Do(w.id+":"+resourceID, func() (any, error) {
		return w.download(ctx, resourceID)
	})
	if err != nil {
		return Download{}, err
	}
	d := v.(Download)
	d.Resource = d.Resource.Clone()
	return d, nil
}

func (w *Workspace) download(ctx context.Context, resourceID string) (Download, error) {
	var url string
	err := w.read(func(models.User) error {
		r, ok := w.st.resources.Get(resourceID)
		if !ok {
			return fmt.Errorf("resource %s: %w", resourceID, ErrNotFound)
		}
		url = r.FileURL
		w.view.DownloadingResourceID = resourceID
		return nil
	})
	if err != nil {
		return Download{}, err
	}
	defer w.clearDownloading(resourceID)

	content, err := w.st.fetch(ctx, url)
	if err != nil {
		w.st.log.Warn("resource fetch failed", zap.String("resource_id", resourceID), zap.Error(err))
		return Download{}, fmt.Errorf("download %s: %w", resourceID, err)
	}

	res, err := w.st.RecordDownload(resourceID)
	if err != nil {
		return Download{}, err
	}
	return Download{Resource: res, Content: content}, nil
}

func (w *Workspace) clearDownloading(resourceID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.view.DownloadingResourceID == resourceID {
		w.view.DownloadingResourceID = ""
	}
}

// fetch reads the content stored under url. Seeded resources carry
// placeholder URLs with no content behind them.
func (s *State) fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" || url == "#" || s.blobs == nil {
		return []byte{}, ctx.Err()
	}
	rc, err := s.blobs.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
