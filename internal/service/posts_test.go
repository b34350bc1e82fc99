package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roteiro-cms/roteiro/internal/authz"
	"github.com/roteiro-cms/roteiro/internal/cache"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/testutil"
)

func newTestPostService(t *testing.T) (*PostService, *postServiceFixture) {
	t.Helper()

	db := testutil.TestDB(t)

	hotelA := testutil.CreateHotel(t, db, "Pousada Mar Azul")
	hotelB := testutil.CreateHotel(t, db, "Hotel Serra Verde")

	admin := testutil.CreateUser(t, db, "admin@example.com", model.RoleAdmin, 0)
	editorA := testutil.CreateUser(t, db, "editor-a@example.com", model.RoleEditor, hotelA.ID)
	authorA := testutil.CreateUser(t, db, "author-a@example.com", model.RoleAuthor, hotelA.ID)
	authorA2 := testutil.CreateUser(t, db, "author-a2@example.com", model.RoleAuthor, hotelA.ID)
	editorB := testutil.CreateUser(t, db, "editor-b@example.com", model.RoleEditor, hotelB.ID)

	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })
	postCache := cache.NewPostCache(backend, time.Minute)

	svc := NewPostService(db, postCache, NewEventService(db, nil))

	fx := &postServiceFixture{
		hotelA: hotelA.ID,
		hotelB: hotelB.ID,
		admin:  authz.AuthContext{PrincipalID: admin.ID, Role: model.RoleAdmin},
		editorA: authz.AuthContext{
			PrincipalID: editorA.ID, Role: model.RoleEditor, HotelID: hotelA.ID,
		},
		authorA: authz.AuthContext{
			PrincipalID: authorA.ID, Role: model.RoleAuthor, HotelID: hotelA.ID,
		},
		authorA2: authz.AuthContext{
			PrincipalID: authorA2.ID, Role: model.RoleAuthor, HotelID: hotelA.ID,
		},
		editorB: authz.AuthContext{
			PrincipalID: editorB.ID, Role: model.RoleEditor, HotelID: hotelB.ID,
		},
		postCache: postCache,
	}
	return svc, fx
}

type postServiceFixture struct {
	hotelA, hotelB int64
	admin          authz.AuthContext
	editorA        authz.AuthContext
	authorA        authz.AuthContext
	authorA2       authz.AuthContext
	editorB        authz.AuthContext
	postCache      *cache.PostCache
}

func TestPostService_CreateDerivesSlug(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.authorA, CreatePostInput{
		Title: "Café com Leite na Praia!",
		Body:  "conteúdo",
	})
	require.NoError(t, err)

	assert.Equal(t, "cafe-com-leite-na-praia", post.Slug)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Equal(t, fx.hotelA, post.HotelID)
	assert.Equal(t, fx.authorA.PrincipalID, post.AuthorID)
	assert.False(t, post.PublishedAt.Valid)
}

func TestPostService_CreateSuffixesDuplicateSlug(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "Roteiro de Praia"})
	require.NoError(t, err)
	require.Equal(t, "roteiro-de-praia", first.Slug)

	// Same title from another hotel still suffixes: slugs are global because
	// public URLs carry no hotel segment.
	second, err := svc.Create(ctx, fx.editorB, CreatePostInput{Title: "Roteiro de Praia"})
	require.NoError(t, err)
	assert.Equal(t, "roteiro-de-praia-1", second.Slug)

	third, err := svc.Create(ctx, fx.editorA, CreatePostInput{Title: "Roteiro de Praia"})
	require.NoError(t, err)
	assert.Equal(t, "roteiro-de-praia-2", third.Slug)
}

func TestPostService_CreatePublishedStampsTime(t *testing.T) {
	svc, fx := newTestPostService(t)

	post, err := svc.Create(context.Background(), fx.editorA, CreatePostInput{
		Title:  "Publicado",
		Status: model.PostStatusPublished,
	})
	require.NoError(t, err)

	assert.True(t, post.PublishedAt.Valid)
	assert.WithinDuration(t, time.Now(), post.PublishedAt.Time, 5*time.Second)
}

func TestPostService_CreateValidation(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, fx.authorA, CreatePostInput{Title: "ok", Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Admin must name a hotel
	_, err = svc.Create(ctx, fx.admin, CreatePostInput{Title: "sem hotel"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Admin with explicit hotel works
	post, err := svc.Create(ctx, fx.admin, CreatePostInput{Title: "com hotel", HotelID: fx.hotelB})
	require.NoError(t, err)
	assert.Equal(t, fx.hotelB, post.HotelID)
}

func TestPostService_GetTenantIsolation(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "Interno"})
	require.NoError(t, err)

	// Same hotel reads fine
	_, err = svc.Get(ctx, fx.editorA, post.ID)
	assert.NoError(t, err)

	// Another hotel's editor is denied
	_, err = svc.Get(ctx, fx.editorB, post.ID)
	assert.True(t, IsForbidden(err), "expected forbidden, got %v", err)

	// Admin sees everything
	_, err = svc.Get(ctx, fx.admin, post.ID)
	assert.NoError(t, err)

	// Missing post
	_, err = svc.Get(ctx, fx.admin, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_UpdateKeepsSlugWhenTitleUnchanged(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "Roteiro Gastronômico"})
	require.NoError(t, err)
	require.Equal(t, "roteiro-gastronomico", post.Slug)

	body := "novo corpo"
	updated, err := svc.Update(ctx, fx.authorA, post.ID, UpdatePostInput{Body: &body})
	require.NoError(t, err)

	assert.Equal(t, "roteiro-gastronomico", updated.Slug)
	assert.Equal(t, "novo corpo", updated.Body)

	// Re-sending the same title must not grow a suffix
	sameTitle := "Roteiro Gastronômico"
	updated, err = svc.Update(ctx, fx.authorA, post.ID, UpdatePostInput{Title: &sameTitle})
	require.NoError(t, err)
	assert.Equal(t, "roteiro-gastronomico", updated.Slug)
}

func TestPostService_UpdateRederivesSlugOnTitleChange(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "Título Antigo"})
	require.NoError(t, err)

	newTitle := "Título Novo"
	updated, err := svc.Update(ctx, fx.authorA, post.ID, UpdatePostInput{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "titulo-novo", updated.Slug)
	assert.Equal(t, "Título Novo", updated.Title)
}

func TestPostService_UpdateAuthorization(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "Do Autor A"})
	require.NoError(t, err)

	body := "x"

	// Another author in the same hotel cannot touch it
	_, err = svc.Update(ctx, fx.authorA2, post.ID, UpdatePostInput{Body: &body})
	assert.True(t, IsForbidden(err), "expected forbidden, got %v", err)

	// The hotel's editor can
	_, err = svc.Update(ctx, fx.editorA, post.ID, UpdatePostInput{Body: &body})
	assert.NoError(t, err)

	// An editor from another hotel cannot
	_, err = svc.Update(ctx, fx.editorB, post.ID, UpdatePostInput{Body: &body})
	assert.True(t, IsForbidden(err), "expected forbidden, got %v", err)
}

func TestPostService_PublishAndRepublishKeepsFirstTimestamp(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.editorA, CreatePostInput{Title: "Sazonal"})
	require.NoError(t, err)

	published := model.PostStatusPublished
	first, err := svc.Update(ctx, fx.editorA, post.ID, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	require.True(t, first.PublishedAt.Valid)

	archived := model.PostStatusArchived
	_, err = svc.Update(ctx, fx.editorA, post.ID, UpdatePostInput{Status: &archived})
	require.NoError(t, err)

	second, err := svc.Update(ctx, fx.editorA, post.ID, UpdatePostInput{Status: &published})
	require.NoError(t, err)

	assert.Equal(t, first.PublishedAt.Time.Unix(), second.PublishedAt.Time.Unix())
}

func TestPostService_DeleteAuthorization(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "Para Apagar"})
	require.NoError(t, err)

	// Cross-hotel delete denied
	err = svc.Delete(ctx, fx.editorB, post.ID)
	assert.True(t, IsForbidden(err), "expected forbidden, got %v", err)

	// Own author deletes own post
	err = svc.Delete(ctx, fx.authorA, post.ID)
	assert.NoError(t, err)

	err = svc.Delete(ctx, fx.authorA, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_ListScoping(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, fx.authorA, CreatePostInput{Title: "A1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, fx.editorA, CreatePostInput{Title: "A2"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, fx.editorB, CreatePostInput{Title: "B1"})
	require.NoError(t, err)

	aPosts, err := svc.List(ctx, fx.authorA, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, aPosts, 2)
	for _, p := range aPosts {
		assert.Equal(t, fx.hotelA, p.HotelID)
	}

	bPosts, err := svc.List(ctx, fx.editorB, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, bPosts, 1)

	allPosts, err := svc.List(ctx, fx.admin, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, allPosts, 3)
}

func TestPostService_PublicPathHidesDrafts(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, fx.editorA, CreatePostInput{Title: "Rascunho"})
	require.NoError(t, err)

	_, err = svc.GetPublishedBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	published, err := svc.Create(ctx, fx.editorA, CreatePostInput{
		Title:  "Visível",
		Status: model.PostStatusPublished,
	})
	require.NoError(t, err)

	got, err := svc.GetPublishedBySlug(ctx, published.Slug)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestPostService_PublicCacheInvalidatedOnUpdate(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, fx.editorA, CreatePostInput{
		Title:  "Em Cache",
		Status: model.PostStatusPublished,
	})
	require.NoError(t, err)

	// Warm the cache
	_, err = svc.GetPublishedBySlug(ctx, post.Slug)
	require.NoError(t, err)

	// Unpublishing must drop the cached copy
	draft := model.PostStatusDraft
	_, err = svc.Update(ctx, fx.editorA, post.ID, UpdatePostInput{Status: &draft})
	require.NoError(t, err)

	_, err = svc.GetPublishedBySlug(ctx, post.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_ListPublishedKeywordFilter(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, fx.editorA, CreatePostInput{
		Title:    "Praias",
		Keywords: "praia, verão",
		Status:   model.PostStatusPublished,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, fx.editorA, CreatePostInput{
		Title:    "Trilhas",
		Keywords: "montanha, trilha",
		Status:   model.PostStatusPublished,
	})
	require.NoError(t, err)

	posts, err := svc.ListPublished(ctx, ListPublishedOptions{Keyword: "praia"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Praias", posts[0].Title)

	all, err := svc.ListPublished(ctx, ListPublishedOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostService_ErrorsAreDistinguishable(t *testing.T) {
	svc, fx := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, fx.editorA, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsForbidden(err))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}
