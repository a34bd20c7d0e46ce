package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/2beens/elitefitness/internal/fitness"
	"github.com/2beens/elitefitness/internal/telemetry/metrics"
	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const collection = "photos"

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrCompareCount  = fitness.NewValidationError("photos", "select exactly 2 photos to compare")
)

type Service struct {
	roster   *fitness.Roster
	store    fitness.Store[fitness.ProgressPhoto]
	blobs    BlobStore
	metrics  *metrics.Manager
	maxBytes int64

	Now func() time.Time
}

func NewService(
	roster *fitness.Roster,
	blobs BlobStore,
	metricsManager *metrics.Manager,
	maxBytes int64,
) *Service {
	return &Service{
		roster:   roster,
		store:    roster.Stores().Photos,
		blobs:    blobs,
		metrics:  metricsManager,
		maxBytes: maxBytes,
		Now:      time.Now,
	}
}

type UploadParams struct {
	// Image is a base64 data url
	Image    string                `json:"image"`
	Date     fitness.Date          `json:"date"`
	Category fitness.PhotoCategory `json:"category"`
	Notes    string                `json:"notes"`
}

type Listing struct {
	Photos  []fitness.ProgressPhoto            `json:"photos"`
	ByMonth map[string][]fitness.ProgressPhoto `json:"byMonth"`
	Total   int                                `json:"total"`
}

type Stats struct {
	TotalPhotos int                     `json:"totalPhotos"`
	FirstDate   fitness.Date            `json:"firstDate"`
	LatestDate  fitness.Date            `json:"latestDate"`
	DaysBetween int                     `json:"daysBetween"`
	Categories  []fitness.PhotoCategory `json:"categories"`
}

type Comparison struct {
	Before      fitness.ProgressPhoto `json:"before"`
	After       fitness.ProgressPhoto `json:"after"`
	DaysBetween int                   `json:"daysBetween"`
}

// Add decodes the uploaded image, stores the blob and appends the photo. The blob
// is removed again when the photo cannot be stored.
func (s *Service) Add(ctx context.Context, userID int64, params UploadParams) (_ fitness.ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photos.add")
	defer tracing.EndSpanWithErrCheck(span, &err)

	now := s.Now()
	today := fitness.DateOf(now)
	photo := fitness.ProgressPhoto{
		Date:      params.Date,
		Category:  params.Category,
		Notes:     strings.TrimSpace(params.Notes),
		Timestamp: now.UTC(),
	}
	if photo.Date.IsZero() {
		photo.Date = today
	}
	if photo.Category == "" {
		photo.Category = fitness.PhotoFront
	}

	image, err := ParseDataURL(params.Image, s.maxBytes)
	if err != nil {
		return fitness.ProgressPhoto{}, err
	}
	key := uuid.NewString()
	photo.ImageRef = blobRef(key)
	photo.ContentType = image.ContentType
	if err := photo.Validate(today); err != nil {
		return fitness.ProgressPhoto{}, err
	}

	if err := s.blobs.Save(ctx, key, image.ContentType, bytes.NewReader(image.Data)); err != nil {
		return fitness.ProgressPhoto{}, fmt.Errorf("save image: %w", err)
	}

	var added fitness.ProgressPhoto
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		u.ProgressPhotos, added = s.store.Add(u.ProgressPhotos, photo)
		return u, nil
	}); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Errorf("photos: remove orphaned blob %s: %s", key, delErr)
		}
		return fitness.ProgressPhoto{}, err
	}

	span.SetAttributes(attribute.Int64("photo.id", added.ID))
	span.SetAttributes(attribute.Int("photo.size", len(image.Data)))
	s.metrics.RecordMutation(collection, "add")
	return added, nil
}

// List returns the photos of the category ("" or "all" for every category),
// also grouped by "YYYY-MM".
func (s *Service) List(ctx context.Context, userID int64, category string) (Listing, error) {
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return Listing{}, err
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && category != "all" && !fitness.PhotoCategory(category).Valid() {
		return Listing{}, fitness.NewValidationError("category", "unknown category "+category)
	}

	listing := Listing{
		Photos:  []fitness.ProgressPhoto{},
		ByMonth: map[string][]fitness.ProgressPhoto{},
	}
	for _, p := range user.ProgressPhotos {
		if category != "" && category != "all" && string(p.Category) != category {
			continue
		}
		listing.Photos = append(listing.Photos, p)
		month := p.Date.MonthKey()
		listing.ByMonth[month] = append(listing.ByMonth[month], p)
	}
	listing.Total = len(listing.Photos)
	return listing, nil
}

// Stats needs at least two photos, otherwise ok is false.
func (s *Service) Stats(ctx context.Context, userID int64) (_ Stats, ok bool, _ error) {
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return Stats{}, false, err
	}
	stats, ok := ProgressStats(user.ProgressPhotos)
	return stats, ok, nil
}

func ProgressStats(list []fitness.ProgressPhoto) (Stats, bool) {
	if len(list) < 2 {
		return Stats{}, false
	}

	sorted := make([]fitness.ProgressPhoto, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	first := sorted[0]
	latest := sorted[len(sorted)-1]
	stats := Stats{
		TotalPhotos: len(list),
		FirstDate:   first.Date,
		LatestDate:  latest.Date,
		DaysBetween: first.Date.DaysUntil(latest.Date),
		Categories:  []fitness.PhotoCategory{},
	}
	seen := map[fitness.PhotoCategory]bool{}
	for _, p := range list {
		if !seen[p.Category] {
			seen[p.Category] = true
			stats.Categories = append(stats.Categories, p.Category)
		}
	}
	return stats, true
}

// Compare puts exactly two photos side by side, the older one first.
func (s *Service) Compare(ctx context.Context, userID int64, ids []int64) (Comparison, error) {
	if len(ids) != 2 || ids[0] == ids[1] {
		return Comparison{}, ErrCompareCount
	}
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return Comparison{}, err
	}

	a, found := fitness.Find(user.ProgressPhotos, ids[0])
	if !found {
		return Comparison{}, ErrPhotoNotFound
	}
	b, found := fitness.Find(user.ProgressPhotos, ids[1])
	if !found {
		return Comparison{}, ErrPhotoNotFound
	}
	if b.Date.Before(a.Date) {
		a, b = b, a
	}
	return Comparison{
		Before:      a,
		After:       b,
		DaysBetween: a.Date.DaysUntil(b.Date),
	}, nil
}

func (s *Service) UpdateNotes(ctx context.Context, userID, id int64, notes string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photos.updateNotes")
	span.SetAttributes(attribute.Int64("photo.id", id))
	defer tracing.EndSpanWithErrCheck(span, &err)

	notes = strings.TrimSpace(notes)
	updated := false
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		existing, found := fitness.Find(u.ProgressPhotos, id)
		if !found || existing.Notes == notes {
			return u, fitness.ErrNoChange
		}
		u.ProgressPhotos, updated = s.store.Update(u.ProgressPhotos, id, func(p fitness.ProgressPhoto) fitness.ProgressPhoto {
			p.Notes = notes
			return p
		})
		return u, nil
	}); err != nil {
		return false, err
	}

	if updated {
		s.metrics.RecordMutation(collection, "update")
	}
	return updated, nil
}

// Delete removes the photo and then its blob. A blob that fails to go away is
// only logged, the photo is already gone.
func (s *Service) Delete(ctx context.Context, userID, id int64) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photos.delete")
	span.SetAttributes(attribute.Int64("photo.id", id))
	defer tracing.EndSpanWithErrCheck(span, &err)

	var removedPhoto fitness.ProgressPhoto
	removed := false
	if _, err := s.roster.Update(ctx, userID, func(u fitness.User) (fitness.User, error) {
		p, found := fitness.Find(u.ProgressPhotos, id)
		if !found {
			return u, fitness.ErrNoChange
		}
		removedPhoto = p
		u.ProgressPhotos, removed = s.store.Remove(u.ProgressPhotos, id)
		return u, nil
	}); err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	s.metrics.RecordMutation(collection, "delete")
	if key, ok := blobKey(removedPhoto.ImageRef); ok {
		if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, ErrBlobNotFound) {
			log.Errorf("photos: delete blob %s of photo %d: %s", key, id, err)
		}
	}
	return true, nil
}

// Image opens the stored bytes of the photo. The caller closes the reader.
func (s *Service) Image(ctx context.Context, userID, id int64) (io.ReadCloser, fitness.ProgressPhoto, error) {
	user, err := s.roster.Get(ctx, userID)
	if err != nil {
		return nil, fitness.ProgressPhoto{}, err
	}
	photo, found := fitness.Find(user.ProgressPhotos, id)
	if !found {
		return nil, fitness.ProgressPhoto{}, ErrPhotoNotFound
	}
	key, ok := blobKey(photo.ImageRef)
	if !ok {
		return nil, fitness.ProgressPhoto{}, fmt.Errorf("photo %d: unexpected image reference %q", id, photo.ImageRef)
	}
	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		return nil, fitness.ProgressPhoto{}, err
	}
	return rc, photo, nil
}
