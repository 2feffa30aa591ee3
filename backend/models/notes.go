package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentType string

const (
	ContentFile ContentType = "file"
	ContentLink ContentType = "link"
)

// URLType tags the hosting provider of an external notes link.
type URLType string

const (
	URLGoogleDrive URLType = "google-drive"
	URLOneDrive    URLType = "onedrive"
	URLDropbox     URLType = "dropbox"
	URLGitHub      URLType = "github"
	URLYouTube     URLType = "youtube"
	URLOther       URLType = "other"
)

func (t URLType) Valid() bool {
	switch t {
	case URLGoogleDrive, URLOneDrive, URLDropbox, URLGitHub, URLYouTube, URLOther:
		return true
	}
	return false
}

// DetectURLType classifies a link by substring match on its lower-cased hostname.
func DetectURLType(rawURL string) URLType {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)

	switch {
	case strings.Contains(host, "drive.google.com"):
		return URLGoogleDrive
	case strings.Contains(host, "onedrive.live.com"), strings.Contains(host, "sharepoint.com"):
		return URLOneDrive
	case strings.Contains(host, "dropbox.com"):
		return URLDropbox
	case strings.Contains(host, "github.com"):
		return URLGitHub
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return URLYouTube
	}
	return URLOther
}

type Notes struct {
	Base
	Moderation
	Title            string                      `gorm:"not null" json:"title"`
	Description      string                      `gorm:"type:text" json:"description"`
	Category         string                      `gorm:"index;not null" json:"category"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	AuthorID         uuid.UUID                   `gorm:"type:uuid;index;not null" json:"authorId"`
	AuthorName       string                      `json:"authorName"`
	ContentType      ContentType                 `gorm:"type:varchar(10);not null" json:"contentType"`
	FileURL          string                      `json:"fileUrl,omitempty"`
	OriginalFileName string                      `json:"originalFileName,omitempty"`
	FileSize         int64                       `json:"fileSize,omitempty"`
	FileType         string                      `json:"fileType,omitempty"`
	ExternalURL      string                      `json:"externalUrl,omitempty"`
	URLType          URLType                     `gorm:"type:varchar(20)" json:"urlType,omitempty"`
	Thumbnail        string                      `json:"thumbnail"`
	Pages            int                         `json:"pages"`
	IsFree           bool                        `gorm:"default:true" json:"isFree"`
	Downloads        int64                       `json:"downloads"`
	Rating           float64                     `json:"rating"`
	RatingCount      int64                       `json:"totalRatings"`

	Author *AuthorRef `gorm:"-" json:"author,omitempty"`
}

func (Notes) TableName() string {
	return "notes"
}
