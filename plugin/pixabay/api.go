package pixabay

import (
	"github.com/Brawl345/pixabot/imagesearch"
	"github.com/Brawl345/pixabot/model"
)

const (
	BaseURL = "https://pixabay.com/api/"

	MaxQueryLength = 100
)

type (
	Response struct {
		Total     int     `json:"total"`
		TotalHits int     `json:"totalHits"`
		Hits      []Image `json:"hits"`
	}

	Image struct {
		Id            int64  `json:"id"`
		PageUrl       string `json:"pageURL"`
		Type          string `json:"type"`
		Tags          string `json:"tags"`
		PreviewUrl    string `json:"previewURL"`
		WebformatUrl  string `json:"webformatURL"`
		LargeImageUrl string `json:"largeImageURL"`
		ImageWidth    int    `json:"imageWidth"`
		ImageHeight   int    `json:"imageHeight"`
		Views         int64  `json:"views"`
		Downloads     int64  `json:"downloads"`
		Likes         int64  `json:"likes"`
		Comments      int64  `json:"comments"`
		User          string `json:"user"`
	}
)

func (i Image) HitID() int64 {
	return i.Id
}

func (i Image) HitTags() string {
	return i.Tags
}

func (i Image) WebformatURL() string {
	return i.WebformatUrl
}

func (i Image) LargeImageURL() string {
	if i.LargeImageUrl != "" {
		return i.LargeImageUrl
	}
	return i.WebformatUrl
}

func (i Image) PageURL() string {
	return i.PageUrl
}

func (r *Response) SearchResponse() imagesearch.Response {
	hits := make([]imagesearch.Hit, len(r.Hits))
	for i, v := range r.Hits {
		hits[i] = v
	}
	return imagesearch.Response{
		Hits:      hits,
		TotalHits: r.TotalHits,
	}
}

func (i Image) toModel() model.PixabayImage {
	return model.PixabayImage{
		ImageID:       i.Id,
		Tags:          i.Tags,
		PageURL:       i.PageUrl,
		PreviewURL:    i.PreviewUrl,
		WebformatURL:  i.WebformatUrl,
		LargeImageURL: i.LargeImageUrl,
		Views:         i.Views,
		Likes:         i.Likes,
		Downloads:     i.Downloads,
		User:          i.User,
	}
}

func imageFromModel(m model.PixabayImage) Image {
	return Image{
		Id:            m.ImageID,
		Tags:          m.Tags,
		PageUrl:       m.PageURL,
		PreviewUrl:    m.PreviewURL,
		WebformatUrl:  m.WebformatURL,
		LargeImageUrl: m.LargeImageURL,
		Views:         m.Views,
		Likes:         m.Likes,
		Downloads:     m.Downloads,
		User:          m.User,
	}
}
