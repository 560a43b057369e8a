package pixabay

import (
	"context"
	"errors"
	"time"

	"github.com/Brawl345/pixabot/imagesearch"
	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/model"
)

type (
	Fetcher interface {
		Fetch(ctx context.Context, query string, page int) (Response, error)
		Variant() string
	}

	// CachedSearcher serves repeated requests from the database, Pixabay
	// asks for results to be cached for 24 hours.
	CachedSearcher struct {
		fetcher Fetcher
		cache   model.PixabayCacheService
		ttl     time.Duration
		log     *logger.Logger
	}
)

func NewCachedSearcher(fetcher Fetcher, cache model.PixabayCacheService, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		log:     logger.New("pixabayCache"),
	}
}

func (s *CachedSearcher) Search(ctx context.Context, query string, page int) (imagesearch.Response, error) {
	variant := s.fetcher.Variant()

	cached, err := s.cache.GetPage(query, page, variant, s.ttl)
	if err == nil {
		s.log.Debug().
			Str("query", query).
			Int("page", page).
			Msg("cache hit")
		return responseFromCache(&cached).SearchResponse(), nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		s.log.Err(err).
			Str("query", query).
			Int("page", page).
			Msg("error reading pixabay cache")
	}

	response, err := s.fetcher.Fetch(ctx, query, page)
	if err != nil {
		return imagesearch.Response{}, err
	}

	err = s.cache.SavePage(pageToCache(query, page, variant, &response))
	if err != nil {
		s.log.Err(err).
			Str("query", query).
			Int("page", page).
			Msg("error saving pixabay cache")
	}

	return response.SearchResponse(), nil
}

func pageToCache(query string, page int, variant string, response *Response) *model.PixabayPage {
	images := make([]model.PixabayImage, len(response.Hits))
	for i, hit := range response.Hits {
		images[i] = hit.toModel()
	}
	return &model.PixabayPage{
		Query:     query,
		Page:      page,
		Variant:   variant,
		TotalHits: response.TotalHits,
		Images:    images,
	}
}

func responseFromCache(cached *model.PixabayPage) *Response {
	hits := make([]Image, len(cached.Images))
	for i, image := range cached.Images {
		hits[i] = imageFromModel(image)
	}
	return &Response{
		TotalHits: cached.TotalHits,
		Hits:      hits,
	}
}
