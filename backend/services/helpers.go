package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"esiksha/backend/apperr"
	"esiksha/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

// lookupErr maps a gorm lookup failure to a not-found or internal error.
func lookupErr(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal("Database error", err)
}

func dbErr(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Internal("Database error", err)
}

// SplitTags turns "a, b,,c " into [a b c].
func SplitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// isHTTPURL accepts absolute http and https URLs with a host.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// loadAuthors resolves account summaries for the given ids.
func loadAuthors(ctx context.Context, db *gorm.DB, ids []uuid.UUID, withEmail bool) (map[uuid.UUID]*models.AuthorRef, error) {
	out := make(map[uuid.UUID]*models.AuthorRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	columns := []string{"id", "full_name", "avatar"}
	if withEmail {
		columns = append(columns, "email")
	}
	var refs []models.AuthorRef
	if err := db.WithContext(ctx).Model(&models.User{}).Select(columns).Where("id IN ?", uniqueIDs(ids)).Find(&refs).Error; err != nil {
		return nil, dbErr(err)
	}
	for i := range refs {
		out[refs[i].ID] = &refs[i]
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type ListQuery struct {
	Category string `query:"category"`
	Level    string `query:"level"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	q.Category = strings.TrimSpace(q.Category)
	if strings.EqualFold(q.Category, "all") {
		q.Category = ""
	}
	q.Level = strings.TrimSpace(q.Level)
	if strings.EqualFold(q.Level, "all") {
		q.Level = ""
	}
	q.Search = strings.TrimSpace(q.Search)
}

func (q ListQuery) offset() int {
	return (q.Page - 1) * q.Limit
}
