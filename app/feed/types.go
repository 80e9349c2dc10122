package feed

import (
	"time"
)

type SourceKind string

const (
	KindSyndication  SourceKind = "syndication"
	KindVideoChannel SourceKind = "video-channel"
)

// Descriptor is the canonical form of a user-supplied source reference
type Descriptor struct {
	Kind          SourceKind
	CanonicalURL  string
	RawIdentifier string
	Alternates    []ChannelMatch
}

// ChannelMatch is one result from the external channel search collaborator
type ChannelMatch struct {
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
}

// Record is a normalized feed entry ready for dedup and persistence
type Record struct {
	CanonicalID  string
	Title        string
	Description  string
	Link         string
	ThumbnailURL *string
	PublishedAt  time.Time
}
