// Package clip holds the clip metadata model, the asset URL convention of the
// Twitch clip CDN, and the policies for choosing which clips to store.
package clip

import (
	"strings"
	"time"
)

// Thumbnail naming convention of the clip CDN. The MP4 asset lives next to
// the preview image under the same base name. This is an undocumented
// upstream contract and may change without notice.
const (
	ThumbnailSuffix = "-preview-480x272.jpg"
	AssetSuffix     = ".mp4"
)

// ContentType is the media type stored for every clip asset.
const ContentType = "video/mp4"

// Clip is the metadata of a single clip as listed by the provider.
type Clip struct {
	ID              string
	Title           string
	URL             string
	ThumbnailURL    string
	BroadcasterName string
	CreatedAt       time.Time
	Duration        float64
	ViewCount       int
}

// VideoURL returns the derived MP4 asset URL for the clip.
// ok is false when the thumbnail does not follow the CDN naming convention.
func (c Clip) VideoURL() (url string, ok bool) {
	return AssetURL(c.ThumbnailURL)
}

// ObjectKey returns the object store key for the clip under prefix.
func (c Clip) ObjectKey(prefix string) string {
	return prefix + c.ID + AssetSuffix
}

// AssetURL replaces the first thumbnail suffix in thumbnailURL with the asset
// suffix. ok is false, and url is empty, when the suffix is absent.
func AssetURL(thumbnailURL string) (url string, ok bool) {
	if !strings.Contains(thumbnailURL, ThumbnailSuffix) {
		return "", false
	}
	return strings.Replace(thumbnailURL, ThumbnailSuffix, AssetSuffix, 1), true
}
