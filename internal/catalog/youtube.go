package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/lukemoll/replay/internal/recommend"
)

// searchDepth is how many search hits are checked for embeddability before
// a candidate is written off.
const searchDepth = 5

// YouTubeResolver resolves candidates one by one: search the catalog for
// "title artist", then return the first hit whose status marks it
// embeddable, as an embed URL.
type YouTubeResolver struct {
	svc *youtube.Service
}

func NewYouTubeResolver(ctx context.Context, apiKey string) (*YouTubeResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key not configured")
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}

	return &YouTubeResolver{svc: svc}, nil
}

// Resolve returns the first embeddable video for the candidate, or
// (nil, nil) when the top search hits have none. Backend failures come back
// classified.
func (r *YouTubeResolver) Resolve(ctx context.Context, c recommend.Candidate) (*recommend.Song, error) {
	query := fmt.Sprintf("%s %s", c.Title, c.Artist)

	searchResp, err := r.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(searchDepth).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("youtube search", err)
	}

	for _, item := range searchResp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		videoID := item.Id.VideoId

		videoResp, err := r.svc.Videos.List([]string{"status"}).
			Id(videoID).
			Context(ctx).
			Do()
		if err != nil {
			return nil, classify("youtube videos", err)
		}

		if len(videoResp.Items) == 0 || videoResp.Items[0].Status == nil {
			continue
		}
		if !videoResp.Items[0].Status.Embeddable {
			log.Debug().Str("video_id", videoID).Msg("Skipping non-embeddable video")
			continue
		}

		return &recommend.Song{
			ID:       videoID,
			Title:    c.Title,
			Artist:   c.Artist,
			MediaRef: fmt.Sprintf("https://www.youtube.com/embed/%s", videoID),
		}, nil
	}

	return nil, nil
}

// classify maps a Google API error onto the catalog error taxonomy using
// the typed status code rather than message text. YouTube reports quota
// exhaustion as 403 and rate limiting as 429.
func classify(op string, err error) *Error {
	kind := KindUpstream

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 403 || gerr.Code == 429) {
		kind = KindQuota
	}

	return &Error{Kind: kind, Op: op, Err: err}
}
