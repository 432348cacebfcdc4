package blog

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// WordsPerMinute is the reading speed used for ReadTimeFor.
const WordsPerMinute = 200

// Domain errors
var (
	ErrEmptyTitle   = errors.New("post title cannot be empty")
	ErrTitleTooLong = errors.New("post title cannot exceed 200 characters")
	ErrInvalidSlug  = errors.New("post slug may only contain lowercase letters, digits and hyphens")
)

// Post is a blog article. Content is Markdown.
type Post struct {
	ID        int64      `json:"id,omitempty"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Excerpt   string     `json:"excerpt"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	Author    string     `json:"author"`
	ReadTime  int        `json:"read_time"`
	Published bool       `json:"published"`
	ImageURL  string     `json:"image_url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Validate checks if the Post has valid data.
// PRE: Post struct is populated
// POST: Returns nil if valid, error otherwise
func (p Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if len(p.Title) > 200 {
		return ErrTitleTooLong
	}
	if p.Slug != "" && Slugify(p.Slug) != p.Slug {
		return ErrInvalidSlug
	}
	return nil
}

// Normalize fills the derived fields: slug from title and read time from content.
// POST: Slug and ReadTime are non-empty when Title/Content are
func (p *Post) Normalize() {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.ReadTime == 0 && p.Content != "" {
		p.ReadTime = ReadTimeFor(p.Content)
	}
}

// Matches reports whether the query appears in the title, excerpt, category or author.
// Comparison is case-insensitive; an empty query matches everything.
func (p Post) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Excerpt, p.Category, p.Author} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Slugify lowercases s and replaces runs of non-alphanumerics with one hyphen.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// ReadTimeFor estimates reading minutes for content, minimum one.
func ReadTimeFor(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
