package model

import "time"

type (
	// PixabayPage is one cached page of search results. Variant identifies
	// the request options the page was fetched with.
	PixabayPage struct {
		QueryID   int64     `db:"id"`
		Query     string    `db:"query"`
		Page      int       `db:"page"`
		Variant   string    `db:"variant"`
		TotalHits int       `db:"total_hits"`
		CreatedAt time.Time `db:"created_at"`
		Images    []PixabayImage
	}

	PixabayImage struct {
		ImageID       int64  `db:"image_id"`
		Tags          string `db:"tags"`
		PageURL       string `db:"page_url"`
		PreviewURL    string `db:"preview_url"`
		WebformatURL  string `db:"webformat_url"`
		LargeImageURL string `db:"large_image_url"`
		Views         int64  `db:"views"`
		Likes         int64  `db:"likes"`
		Downloads     int64  `db:"downloads"`
		User          string `db:"user"`
	}

	PixabayCacheService interface {
		// GetPage returns ErrNotFound if the page is not cached or older than maxAge.
		GetPage(query string, page int, variant string, maxAge time.Duration) (PixabayPage, error)
		SavePage(page *PixabayPage) error
	}

	CleanupService interface {
		Cleanup(olderThan time.Duration) error
	}
)
