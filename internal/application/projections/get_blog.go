package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ascend/internal/adapters/remote"
	"ascend/internal/adapters/storage/blog"
	"ascend/internal/application/listutil"
	domainBlog "ascend/internal/domain/blog"
)

// GetBlogListQuery carries query parameters.
type GetBlogListQuery struct {
	Search   string
	Category string
	Page     listutil.PageParams
}

// GetBlogDeps holds dependencies for the blog projections.
type GetBlogDeps struct {
	BlogStore BlogStore
}

// GetBlogListResult carries one page of the blog listing.
type GetBlogListResult struct {
	Posts      []domainBlog.Post
	Categories []string
	Search     string
	Category   string
	PageInfo   listutil.PageInfo
}

// QueryGetBlogList lists published posts, newest first, filtered and paginated.
// PRE: none
// POST: Categories lists every category of a published post; Posts holds only the requested page
func QueryGetBlogList(ctx context.Context, query GetBlogListQuery, deps GetBlogDeps) (GetBlogListResult, error) {
	posts, err := deps.BlogStore.List(ctx, blog.ListFilter{PublishedOnly: true})
	if err != nil {
		return GetBlogListResult{}, err
	}

	seen := map[string]bool{}
	var categories []string
	var matched []domainBlog.Post
	for _, p := range posts {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
		if query.Category != "" && !strings.EqualFold(p.Category, query.Category) {
			continue
		}
		if p.Matches(query.Search) {
			matched = append(matched, p)
		}
	}
	sort.Strings(categories)

	perPage := query.Page.PerPage
	if perPage == 0 {
		perPage = listutil.DefaultPerPage
	}
	info := listutil.NewPageInfo(query.Page.Page, perPage, len(matched))
	return GetBlogListResult{
		Posts:      listutil.Slice(matched, info),
		Categories: categories,
		Search:     query.Search,
		Category:   query.Category,
		PageInfo:   info,
	}, nil
}

// GetBlogPostQuery identifies a post by slug.
type GetBlogPostQuery struct {
	Slug string
}

// QueryGetBlogPost loads a published post.
// PRE: none
// POST: Returns the post, or an error wrapping remote.ErrNotFound when it is missing or a draft
func QueryGetBlogPost(ctx context.Context, query GetBlogPostQuery, deps GetBlogDeps) (domainBlog.Post, error) {
	if query.Slug == "" {
		return domainBlog.Post{}, fmt.Errorf("post: %w", remote.ErrNotFound)
	}
	post, err := deps.BlogStore.GetBySlug(ctx, query.Slug)
	if err != nil {
		return domainBlog.Post{}, err
	}
	if !post.Published {
		return domainBlog.Post{}, fmt.Errorf("post %q: %w", query.Slug, remote.ErrNotFound)
	}
	return post, nil
}
