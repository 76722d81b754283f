package models

import "time"

// MediaKind selects which metadata shape a record gets and which
// snapshot file its collection is mirrored to.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindAudio MediaKind = "audio"
)

// MediaRecord is one uploaded item. Albums use Caption and Timestamp,
// songs use Title, FileName and Duration; everything else is shared.
// JSON field names match the snapshot files written by earlier
// deployments, so existing data/albums.json and data/songs.json load
// unchanged.
type MediaRecord struct {
	ID        string    `json:"id"`
	Src       string    `json:"src"` // blob locator, e.g. /uploads/images/<name>
	Caption   string    `json:"caption,omitempty"`
	Title     string    `json:"title,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	Uploader  string    `json:"uploader"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Duration  string    `json:"duration,omitempty"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
}
