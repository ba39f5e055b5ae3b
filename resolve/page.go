package resolve

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/anisan-cli/anibridge/extract"
	"github.com/anisan-cli/anibridge/link"
	"github.com/anisan-cli/anibridge/source"
)

// tools handles the fast4speed host. It usually redirects straight to the media
// file, in which case the redirect target is returned without fetching it.
func (r *Router) tools(ctx context.Context, u string) (*source.Resolved, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.send(ctx, r.single, u, r.referer)
	if err != nil {
		return nil, err
	}

	if target, moved := location(resp); moved {
		_ = resp.Body.Close()

		if link.HasVideoExtension(target) {
			return &source.Resolved{URL: target, Type: TypeDirect, Headers: r.headers(r.referer)}, nil
		}

		if resp, err = r.get(ctx, target, r.referer); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if link.HasVideoExtension(final) || isVideo(resp) {
		return &source.Resolved{URL: final, Type: TypeDirect, Headers: r.headers(r.referer)}, nil
	}

	return r.extractFrom(resp, final)
}

// page runs the generic extractor over any other hosting page.
func (r *Router) page(ctx context.Context, u string) (*source.Resolved, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.get(ctx, u, r.referer)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if isVideo(resp) {
		return &source.Resolved{URL: final, Type: TypeDirect, Headers: r.headers(r.referer)}, nil
	}

	return r.extractFrom(resp, final)
}

func (r *Router) extractFrom(resp *http.Response, pageURL string) (*source.Resolved, error) {
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if extract.IsManifest(resp.Header.Get("Content-Type"), body) {
		best, ok := extract.Select(extract.ParseManifest(body, pageURL)).Get()
		if !ok {
			// A media playlist has no variants and is itself playable.
			return &source.Resolved{URL: pageURL, Type: extract.FormatM3U8, Headers: r.headers(r.referer)}, nil
		}
		return resolvedFrom(best, r.headers(r.referer)), nil
	}

	page, err := extract.FromHTML(strings.NewReader(body), pageURL)
	if err != nil {
		return nil, fail(ReasonUpstream, pageURL, err)
	}

	if best, ok := extract.Select(page.Candidates).Get(); ok {
		return resolvedFrom(best, r.headers(pageURL)), nil
	}

	if len(page.Frames) > 0 {
		return &source.Resolved{URL: page.Frames[0], Type: TypeIframe, Headers: r.headers(pageURL)}, nil
	}

	return nil, fail(ReasonNoSources, pageURL, nil)
}

func isVideo(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "video/")
}
