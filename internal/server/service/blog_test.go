package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/server/domain"
	"github.com/inkwellhq/inkwell/internal/server/store"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	user := domain.User{
		ID:         idx.New().String(),
		Fullname:   username + " example",
		Username:   username,
		Email:      username + "@example.com",
		GoogleAuth: true,
		ProfileImg: "https://example.com/" + username + ".png",
	}
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func publishedInput(title string) BlogInput {
	return BlogInput{
		Title:       title,
		Banner:      "https://example.com/banner.jpeg",
		Description: "A few words about " + title,
		Content:     `{"blocks":[]}`,
		Tags:        []string{"go", "testing"},
	}
}

func TestPublishValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	author := seedUser(t, st, "frank")

	t.Run("title always required", func(t *testing.T) {
		_, err := svc.Publish(ctx, author.ID, BlogInput{Draft: true})
		require.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("published posts need a description", func(t *testing.T) {
		in := publishedInput("No Description")
		in.Description = ""
		_, err := svc.Publish(ctx, author.ID, in)
		require.ErrorIs(t, err, ErrDescriptionInvalid)

		in.Description = strings.Repeat("x", 201)
		_, err = svc.Publish(ctx, author.ID, in)
		require.ErrorIs(t, err, ErrDescriptionInvalid)
	})

	t.Run("published posts need a banner", func(t *testing.T) {
		in := publishedInput("No Banner")
		in.Banner = ""
		_, err := svc.Publish(ctx, author.ID, in)
		require.ErrorIs(t, err, ErrBannerRequired)
	})

	t.Run("published posts need content", func(t *testing.T) {
		in := publishedInput("No Content")
		in.Content = ""
		_, err := svc.Publish(ctx, author.ID, in)
		require.ErrorIs(t, err, ErrContentRequired)
	})

	t.Run("published posts need 1 to 10 tags", func(t *testing.T) {
		in := publishedInput("No Tags")
		in.Tags = nil
		_, err := svc.Publish(ctx, author.ID, in)
		require.ErrorIs(t, err, ErrTagsInvalid)

		in.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
		_, err = svc.Publish(ctx, author.ID, in)
		require.ErrorIs(t, err, ErrTagsInvalid)
	})

	t.Run("drafts skip the publish checks", func(t *testing.T) {
		_, err := svc.Publish(ctx, author.ID, BlogInput{Title: "Just a Title", Draft: true})
		require.NoError(t, err)
	})
}

func TestPublishCreatesSlugAndCounts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	author := seedUser(t, st, "grace")

	blog, err := svc.Publish(ctx, author.ID, publishedInput("Hello, World!"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(blog.Slug, "hello-world-"))
	require.False(t, blog.Draft)

	updated, err := st.Users().GetByID(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.TotalPosts)

	t.Run("draft does not count as a post", func(t *testing.T) {
		_, err := svc.Publish(ctx, author.ID, BlogInput{Title: "WIP", Draft: true})
		require.NoError(t, err)

		again, err := st.Users().GetByID(ctx, author.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), again.TotalPosts)
	})

	t.Run("publishing a draft counts once", func(t *testing.T) {
		draft, err := svc.Publish(ctx, author.ID, BlogInput{Title: "Second Post", Draft: true})
		require.NoError(t, err)

		in := publishedInput("Second Post")
		in.Slug = draft.Slug
		_, err = svc.Publish(ctx, author.ID, in)
		require.NoError(t, err)

		again, err := st.Users().GetByID(ctx, author.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2), again.TotalPosts)

		// Re-saving an already-published post must not count again.
		_, err = svc.Publish(ctx, author.ID, in)
		require.NoError(t, err)

		final, err := st.Users().GetByID(ctx, author.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2), final.TotalPosts)
	})
}

func TestPublishAuthorGuard(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	author := seedUser(t, st, "henry")
	other := seedUser(t, st, "iris")

	blog, err := svc.Publish(ctx, author.ID, publishedInput("Mine"))
	require.NoError(t, err)

	in := publishedInput("Stolen")
	in.Slug = blog.Slug
	_, err = svc.Publish(ctx, other.ID, in)
	require.ErrorIs(t, err, ErrNotBlogAuthor)

	in.Slug = "no-such-slug"
	_, err = svc.Publish(ctx, author.ID, in)
	require.ErrorIs(t, err, ErrBlogNotFound)
}

func TestGetIncrementsReadCounters(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	author := seedUser(t, st, "judy")

	blog, err := svc.Publish(ctx, author.ID, publishedInput("Read Me"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, blog.Slug, "", false)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Activity.TotalReads)
	require.Equal(t, "judy", got.Author.Username)

	user, err := st.Users().GetByID(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), user.TotalReads)

	t.Run("edit loads do not count reads", func(t *testing.T) {
		_, err := svc.Get(ctx, blog.Slug, author.ID, true)
		require.NoError(t, err)

		user, err := st.Users().GetByID(ctx, author.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), user.TotalReads)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := svc.Get(ctx, "nope", "", false)
		require.ErrorIs(t, err, ErrBlogNotFound)
	})
}

func TestGetHidesDraftsFromOthers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	author := seedUser(t, st, "kate")

	draft, err := svc.Publish(ctx, author.ID, BlogInput{Title: "Secret", Draft: true})
	require.NoError(t, err)

	_, err = svc.Get(ctx, draft.Slug, "", false)
	require.ErrorIs(t, err, ErrBlogNotFound)

	got, err := svc.Get(ctx, draft.Slug, author.ID, false)
	require.NoError(t, err)
	require.True(t, got.Draft)
	require.Equal(t, int64(0), got.Activity.TotalReads)
}

func TestFeeds(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	author := seedUser(t, st, "liam")

	titles := []string{"First", "Second", "Third"}
	slugs := make(map[string]string, len(titles))
	for _, title := range titles {
		blog, err := svc.Publish(ctx, author.ID, publishedInput(title))
		require.NoError(t, err)
		slugs[title] = blog.Slug
		time.Sleep(2 * time.Millisecond) // distinct created_at for ordering
	}
	_, err := svc.Publish(ctx, author.ID, BlogInput{Title: "Hidden Draft", Draft: true})
	require.NoError(t, err)

	t.Run("latest is newest first and skips drafts", func(t *testing.T) {
		blogs, err := svc.Latest(ctx, 1)
		require.NoError(t, err)
		require.Len(t, blogs, 3)
		require.Equal(t, slugs["Third"], blogs[0].Slug)
		require.Equal(t, slugs["First"], blogs[2].Slug)
	})

	t.Run("latest count excludes drafts", func(t *testing.T) {
		count, err := svc.CountLatest(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), count)
	})

	t.Run("trending orders by reads", func(t *testing.T) {
		for range 3 {
			_, err := svc.Get(ctx, slugs["First"], "", false)
			require.NoError(t, err)
		}
		_, err := svc.Get(ctx, slugs["Second"], "", false)
		require.NoError(t, err)

		blogs, err := svc.Trending(ctx)
		require.NoError(t, err)
		require.Len(t, blogs, 3)
		require.Equal(t, slugs["First"], blogs[0].Slug)
		require.Equal(t, slugs["Second"], blogs[1].Slug)
	})
}

func TestSearchBlogs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	mia := seedUser(t, st, "mia")
	noah := seedUser(t, st, "noah")

	gopher := publishedInput("Gopher Patterns")
	gopher.Tags = []string{"golang"}
	gopherBlog, err := svc.Publish(ctx, mia.ID, gopher)
	require.NoError(t, err)

	recipes := publishedInput("Sourdough Recipes")
	recipes.Tags = []string{"baking"}
	_, err = svc.Publish(ctx, noah.ID, recipes)
	require.NoError(t, err)

	t.Run("by tag", func(t *testing.T) {
		blogs, err := svc.Search(ctx, SearchRequest{Tag: "golang"})
		require.NoError(t, err)
		require.Len(t, blogs, 1)
		require.Equal(t, gopherBlog.Slug, blogs[0].Slug)
	})

	t.Run("by query matches titles", func(t *testing.T) {
		blogs, err := svc.Search(ctx, SearchRequest{Query: "sourdough"})
		require.NoError(t, err)
		require.Len(t, blogs, 1)
		require.Equal(t, "noah", blogs[0].Author.Username)
	})

	t.Run("by author username", func(t *testing.T) {
		blogs, err := svc.Search(ctx, SearchRequest{Author: "mia"})
		require.NoError(t, err)
		require.Len(t, blogs, 1)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := svc.Search(ctx, SearchRequest{Author: "ghost"})
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("excluding a slug drops it from similar-posts", func(t *testing.T) {
		blogs, err := svc.Search(ctx, SearchRequest{Tag: "golang", ExcludeSlug: gopherBlog.Slug})
		require.NoError(t, err)
		require.Empty(t, blogs)
	})

	t.Run("needs some filter", func(t *testing.T) {
		_, err := svc.Search(ctx, SearchRequest{})
		require.ErrorIs(t, err, ErrSearchQueryRequired)
	})

	t.Run("count mirrors search", func(t *testing.T) {
		count, err := svc.CountSearch(ctx, SearchRequest{Query: "recipes"})
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})
}

func TestSearchDraftsGuard(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	olivia := seedUser(t, st, "olivia")
	stranger := seedUser(t, st, "pete")

	_, err := svc.Publish(ctx, olivia.ID, BlogInput{Title: "Draft One", Draft: true})
	require.NoError(t, err)

	t.Run("author sees own drafts", func(t *testing.T) {
		blogs, err := svc.Search(ctx, SearchRequest{
			Author:      "olivia",
			Drafts:      true,
			RequesterID: olivia.ID,
		})
		require.NoError(t, err)
		require.Len(t, blogs, 1)
	})

	t.Run("others are refused", func(t *testing.T) {
		_, err := svc.Search(ctx, SearchRequest{
			Author:      "olivia",
			Drafts:      true,
			RequesterID: stranger.ID,
		})
		require.ErrorIs(t, err, ErrNotBlogAuthor)
	})

	t.Run("anonymous is refused", func(t *testing.T) {
		_, err := svc.Search(ctx, SearchRequest{Author: "olivia", Drafts: true})
		require.ErrorIs(t, err, ErrNotBlogAuthor)
	})
}

func TestSearchUsersAndProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &BlogService{Store: st}
	seedUser(t, st, "quinn")
	seedUser(t, st, "quincy")
	seedUser(t, st, "rosa")

	t.Run("matches by substring", func(t *testing.T) {
		users, err := svc.SearchUsers(ctx, "quin")
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		_, err := svc.SearchUsers(ctx, "  ")
		require.ErrorIs(t, err, ErrSearchQueryRequired)
	})

	t.Run("profile by username", func(t *testing.T) {
		profile, err := svc.Profile(ctx, "rosa")
		require.NoError(t, err)
		require.Equal(t, "rosa", profile.Username)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := svc.Profile(ctx, "ghost")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestNormalizeTags(t *testing.T) {
	require.Equal(t,
		[]string{"go", "testing"},
		normalizeTags([]string{" Go ", "TESTING", "go", ""}),
	)
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "hello-world", slugify("Hello, World!"))
	require.Equal(t, "a-b-c", slugify("  a   b   c  "))
	require.Equal(t, "", slugify("!!!"))
}
