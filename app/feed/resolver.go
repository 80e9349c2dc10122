package feed

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const videoFeedURLFormat = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// maxAlternates bounds the suggestion list attached to search-resolved
// descriptors.
const maxAlternates = 5

var channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

// ChannelSearcher resolves a channel handle or legacy username that cannot
// be turned into a canonical feed URL locally.
type ChannelSearcher interface {
	Search(ctx context.Context, query string) (*ChannelMatch, []ChannelMatch, error)
}

// Resolver classifies raw user input (URL, handle, bare identifier) into a
// canonical source descriptor. It performs no network I/O itself beyond
// delegating handle lookups to the search collaborator.
type Resolver struct {
	searcher ChannelSearcher
}

func NewResolver(searcher ChannelSearcher) *Resolver {
	return &Resolver{searcher: searcher}
}

func (r *Resolver) Resolve(ctx context.Context, raw string) (*Descriptor, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return nil, &ResolutionError{Input: raw, Reason: "empty input"}
	}

	// Bare channel identifier
	if channelIDPattern.MatchString(input) {
		return channelDescriptor(input, nil), nil
	}

	// Bare handle
	if strings.HasPrefix(input, "@") {
		return r.resolveViaSearch(ctx, input, strings.TrimPrefix(input, "@"))
	}

	u, err := url.Parse(input)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &ResolutionError{Input: input, Reason: "not a recognizable URL, handle, or channel identifier"}
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "youtube.com" || host == "m.youtube.com" || strings.HasSuffix(host, ".youtube.com") {
		return r.resolveVideoURL(ctx, input, u)
	}

	// Any other http(s) URL is taken as a syndication feed URL as-is.
	return &Descriptor{
		Kind:          KindSyndication,
		CanonicalURL:  input,
		RawIdentifier: input,
	}, nil
}

func (r *Resolver) resolveVideoURL(ctx context.Context, input string, u *url.URL) (*Descriptor, error) {
	path := strings.Trim(u.Path, "/")

	// Already a canonical channel feed URL
	if path == "feeds/videos.xml" {
		if id := u.Query().Get("channel_id"); channelIDPattern.MatchString(id) {
			return &Descriptor{
				Kind:          KindVideoChannel,
				CanonicalURL:  input,
				RawIdentifier: id,
			}, nil
		}
		return nil, &ResolutionError{Input: input, Reason: "feed URL without a valid channel_id"}
	}

	segments := strings.Split(path, "/")

	// Channel-identifier path segment
	for i, seg := range segments {
		if seg == "channel" && i+1 < len(segments) && channelIDPattern.MatchString(segments[i+1]) {
			return channelDescriptor(segments[i+1], nil), nil
		}
	}

	// Handle or legacy username path: these cannot be resolved locally
	for i, seg := range segments {
		if strings.HasPrefix(seg, "@") {
			return r.resolveViaSearch(ctx, input, strings.TrimPrefix(seg, "@"))
		}
		if seg == "user" && i+1 < len(segments) && segments[i+1] != "" {
			return r.resolveViaSearch(ctx, input, segments[i+1])
		}
	}

	return nil, &ResolutionError{Input: input, Reason: "no recognizable channel segment in URL"}
}

func (r *Resolver) resolveViaSearch(ctx context.Context, input, query string) (*Descriptor, error) {
	if r.searcher == nil {
		return nil, &ResolutionError{Input: input, Reason: "channel search is not configured"}
	}

	best, alternates, err := r.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("channel search failed for %q: %w", query, err)
	}
	if best == nil {
		return nil, &ResolutionError{Input: input, Reason: "channel search returned no match"}
	}

	if len(alternates) > maxAlternates {
		alternates = alternates[:maxAlternates]
	}

	return channelDescriptor(best.ChannelID, alternates), nil
}

func channelDescriptor(channelID string, alternates []ChannelMatch) *Descriptor {
	return &Descriptor{
		Kind:          KindVideoChannel,
		CanonicalURL:  fmt.Sprintf(videoFeedURLFormat, channelID),
		RawIdentifier: channelID,
		Alternates:    alternates,
	}
}
