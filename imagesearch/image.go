package imagesearch

type (
	// Hit is a single raw result as returned by an image search provider.
	// Providers usually carry a lot more than this, projection keeps only
	// what the gallery needs.
	Hit interface {
		HitID() int64
		HitTags() string
		WebformatURL() string
		LargeImageURL() string
	}

	// PageLinker is implemented by hits that link to a page about the image
	// on the provider's site.
	PageLinker interface {
		PageURL() string
	}

	Response struct {
		Hits      []Hit
		TotalHits int
	}

	ImageSummary struct {
		ID           int64
		Tags         string
		ThumbnailURL string
		FullURL      string
		PageURL      string
	}
)

func Project(hit Hit) ImageSummary {
	image := ImageSummary{
		ID:           hit.HitID(),
		Tags:         hit.HitTags(),
		ThumbnailURL: hit.WebformatURL(),
		FullURL:      hit.LargeImageURL(),
	}
	if linker, ok := hit.(PageLinker); ok {
		image.PageURL = linker.PageURL()
	}
	return image
}

func ProjectAll(hits []Hit) []ImageSummary {
	images := make([]ImageSummary, 0, len(hits))
	for _, hit := range hits {
		if hit == nil {
			continue
		}
		images = append(images, Project(hit))
	}
	return images
}
