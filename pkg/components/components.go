// Package components holds the presentational wrappers that articles can embed.
package components

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

const (
	imageStyle = "max-width:100%;height:auto;cursor:pointer"

	youTubeWrapperStyle = "position:relative;padding-bottom:56.25%"
	youTubeFrameStyle   = "border:none;position:absolute;top:0;left:0;width:100%;height:100%"
	youTubeAllow        = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"
	youTubeEmbedBase    = "https://www.youtube.com/embed/"
)

// Image renders an image constrained to its container that opens the full
// image in a new tab when clicked.
func Image(src, alt string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<img src="`)
		sb.WriteString(templ.EscapeString(src))
		sb.WriteString(`" alt="`)
		sb.WriteString(templ.EscapeString(alt))
		sb.WriteString(`" style="` + imageStyle + `" onclick="window.open(this.src, &#39;_blank&#39;)">`)

		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// YouTubeEmbed renders a responsive 16:9 player for the video.
func YouTubeEmbed(videoID, title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div style="` + youTubeWrapperStyle + `">`)
		sb.WriteString(`<iframe src="`)
		sb.WriteString(templ.EscapeString(YouTubeURL(videoID)))
		sb.WriteString(`" title="`)
		sb.WriteString(templ.EscapeString(title))
		sb.WriteString(`" allow="` + youTubeAllow + `" allowfullscreen style="` + youTubeFrameStyle + `"></iframe>`)
		sb.WriteString(`</div>`)

		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func YouTubeURL(videoID string) string {
	return youTubeEmbedBase + url.PathEscape(videoID)
}

// Render is a convenience for callers that need the markup as a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
