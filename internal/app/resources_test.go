package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lalith-99/clubhub/internal/models"
)

func TestUploadResource_ThenDownloadThreeTimes(t *testing.T) {
	blobs := &memBlobs{content: map[string]string{"mem://notes.pdf": "%PDF"}}
	env := newTestEnv(t, Options{Blobs: blobs})
	w := env.signIn(t, "alex@university.edu")

	r, err := w.UploadResource(ResourceInput{
		Title:    "Graph Theory Notes",
		Category: models.CategoryNotes,
		FileURL:  "mem://notes.pdf",
		Tags:     []string{"graphs"},
	})
	if err != nil {
		t.Fatalf("UploadResource() error: %v", err)
	}
	if r.DownloadCount != 0 || r.UploadedBy.ID != "1" || r.ClubID != "1" || !r.UploadDate.Equal(env.clock.Now()) {
		t.Errorf("UploadResource() = %+v", r)
	}

	list, _ := w.ClubResources(ResourceQuery{})
	if list[0].ID != r.ID {
		t.Errorf("newest upload at position 0 = %s, want %s", list[0].ID, r.ID)
	}

	for i := 1; i <= 3; i++ {
		d, err := w.Download(context.Background(), r.ID)
		if err != nil {
			t.Fatalf("Download #%d error: %v", i, err)
		}
		if string(d.Content) != "%PDF" {
			t.Errorf("Download #%d content = %q", i, d.Content)
		}
		if d.Resource.DownloadCount != i {
			t.Errorf("after download #%d count = %d", i, d.Resource.DownloadCount)
		}
	}

	// Other resources are untouched.
	list, _ = w.ClubResources(ResourceQuery{})
	want := map[string]int{r.ID: 3, "1": 156, "2": 89, "3": 234}
	for _, res := range list {
		if res.DownloadCount != want[res.ID] {
			t.Errorf("resource %s count = %d, want %d", res.ID, res.DownloadCount, want[res.ID])
		}
	}
}

func TestUploadResource_Rejected(t *testing.T) {
	env := newTestEnv(t, Options{})
	member := env.signIn(t, "priya@university.edu")
	admin := env.signIn(t, "alex@university.edu")

	valid := ResourceInput{Title: "T", Category: models.CategoryBooks, FileURL: "mem://b"}
	if _, err := member.UploadResource(valid); !errors.Is(err, ErrForbidden) {
		t.Errorf("member UploadResource() error = %v, want ErrForbidden", err)
	}

	var verr *ValidationError
	_, err := admin.UploadResource(ResourceInput{Title: "T", Category: "magazines"})
	if !errors.As(err, &verr) {
		t.Fatalf("UploadResource(invalid) error = %v, want *ValidationError", err)
	}
	for _, f := range []string{"category", "file_url"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("Fields = %v, missing %s", verr.Fields, f)
		}
	}
}

func TestDownload_PlaceholderURL(t *testing.T) {
	blobs := &memBlobs{}
	env := newTestEnv(t, Options{Blobs: blobs})
	w := env.signIn(t, "priya@university.edu")

	d, err := w.Download(context.Background(), "1")
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if len(d.Content) != 0 || d.Resource.DownloadCount != 157 {
		t.Errorf("Download() = %d bytes, count %d; want empty, 157", len(d.Content), d.Resource.DownloadCount)
	}
	if blobs.openCount() != 0 {
		t.Errorf("placeholder URL opened storage %d times", blobs.openCount())
	}
}

func TestDownload_FetchFailureLeavesCount(t *testing.T) {
	blobs := &memBlobs{err: errors.New("bucket unavailable")}
	env := newTestEnv(t, Options{Blobs: blobs})
	w := env.signIn(t, "alex@university.edu")
	r, err := w.UploadResource(ResourceInput{Title: "T", Category: models.CategoryNotes, FileURL: "mem://x"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := w.Download(context.Background(), r.ID); err == nil {
		t.Fatal("Download() succeeded with failing storage")
	}
	list, _ := w.ClubResources(ResourceQuery{})
	if list[0].DownloadCount != 0 {
		t.Errorf("count after failed download = %d, want 0", list[0].DownloadCount)
	}
	if w.View().DownloadingResourceID != "" {
		t.Error("failed download left the pending stage set")
	}
	if _, err := w.Download(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Download(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDownload_StagesAndSharesConcurrentRequests(t *testing.T) {
	blobs := &memBlobs{
		content: map[string]string{"mem://slides": "slides"},
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	env := newTestEnv(t, Options{Blobs: blobs})
	w := env.signIn(t, "alex@university.edu")
	r, err := w.UploadResource(ResourceInput{Title: "Slides", Category: models.CategoryTutorials, FileURL: "mem://slides"})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]Download, 2)
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = w.Download(context.Background(), r.ID)
	}()
	<-blobs.started

	if got := w.View().DownloadingResourceID; got != r.ID {
		t.Errorf("pending stage = %q, want %q", got, r.ID)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = w.Download(context.Background(), r.ID)
	}()

	// A second fetch only starts if the request was not shared; let it through.
	go func() {
		for range blobs.started {
		}
	}()
	close(blobs.release)
	wg.Wait()
	close(blobs.started)

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Download #%d error: %v", i, err)
		}
		if string(results[i].Content) != "slides" {
			t.Errorf("Download #%d content = %q", i, results[i].Content)
		}
	}

	list, _ := w.ClubResources(ResourceQuery{})
	if list[0].DownloadCount != blobs.openCount() {
		t.Errorf("count = %d after %d fetches, want one count per completed fetch", list[0].DownloadCount, blobs.openCount())
	}
	if w.View().DownloadingResourceID != "" {
		t.Error("pending stage not cleared after completion")
	}
}
