package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/policies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newService(t *testing.T) (*PostService, *db.Queries) {
	t.Helper()
	q := setupQueries(t)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	return NewPostService(q, WithClock(clock.Now)), q
}

func TestPostService_Scenario(t *testing.T) {
	svc, q := newService(t)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")
	bob := mustUser(t, q, "bob")

	_, err := svc.Create(ctx, bob, PostInput{Title: "Older", Content: "Bob was here"})
	require.NoError(t, err)

	post, err := svc.Create(ctx, alice, PostInput{Title: "Hi", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, post.UserID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, post.ID, list[0].ID, "newest post must be first")

	entry, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", entry.Title)
	assert.Equal(t, "alice", entry.Author)
	posted := entry.DatePosted

	_, err = svc.Update(ctx, bob, post.ID, PostInput{Title: "Hacked", Content: "World"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, alice, post.ID, PostInput{Title: "Hi2", Content: "World"})
	require.NoError(t, err)

	entry, err = svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi2", entry.Title)
	assert.Equal(t, "alice", entry.Author)
	assert.Equal(t, alice.ID, entry.UserID)
	assert.True(t, entry.DatePosted.Equal(posted), "date_posted must not change on update")

	require.NoError(t, svc.Delete(ctx, alice, post.ID))

	list, err = svc.List(ctx)
	require.NoError(t, err)
	for _, e := range list {
		assert.NotEqual(t, post.ID, e.ID)
	}

	_, err = svc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_ListSortedNewestFirst(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")

	// Datas fora de ordem de inserção.
	times := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC),
	}
	for _, ts := range times {
		svc := NewPostService(q, WithClock(func() time.Time { return ts }))
		_, err := svc.Create(ctx, alice, PostInput{Title: "t", Content: "c"})
		require.NoError(t, err)
	}

	list, err := NewPostService(q).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(times))
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].DatePosted.After(list[i-1].DatePosted), "index %d out of order", i)
	}
}

func TestPostService_Unauthenticated(t *testing.T) {
	svc, q := newService(t)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")

	post, err := svc.Create(ctx, alice, PostInput{Title: "Hi", Content: "World"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, nil, PostInput{Title: "Hi", Content: "World"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = svc.Update(ctx, nil, post.ID, PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	err = svc.Delete(ctx, nil, post.ID)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	// Autenticação é verificada antes da existência.
	_, err = svc.Update(ctx, nil, 9999, PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	err = svc.Delete(ctx, nil, 9999)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	assert.ErrorIs(t, svc.AuthorizeCreate(nil), ErrAuthenticationRequired)
	assert.NoError(t, svc.AuthorizeCreate(alice))
}

func TestPostService_NotFound(t *testing.T) {
	svc, q := newService(t)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")

	_, err := svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, alice, 42, PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, alice, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_ForbiddenForNonOwner(t *testing.T) {
	svc, q := newService(t)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")
	bob := mustUser(t, q, "bob")

	post, err := svc.Create(ctx, alice, PostInput{Title: "Hi", Content: "World"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, post.ID, PostInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, bob, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AuthorizeMutation(ctx, bob, post.ID, policies.ActionDelete)
	assert.ErrorIs(t, err, ErrForbidden)

	entry, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", entry.Title, "forbidden update must not be applied")

	loaded, err := svc.AuthorizeMutation(ctx, alice, post.ID, policies.ActionUpdate)
	require.NoError(t, err)
	assert.Equal(t, post.ID, loaded.ID)
}

func TestPostService_Validation(t *testing.T) {
	svc, q := newService(t)
	ctx := context.Background()
	alice := mustUser(t, q, "alice")

	_, err := svc.Create(ctx, alice, PostInput{Title: "  ", Content: "World"})
	var invalid *InvalidPostError
	require.True(t, errors.As(err, &invalid))
	assert.NotEmpty(t, invalid.Result.FieldError("title"))
	assert.Equal(t, "invalid", Outcome(err))

	post, err := svc.Create(ctx, alice, PostInput{Title: "  Trimmed  ", Content: " body "})
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", post.Title)
	assert.Equal(t, "body", post.Content)

	_, err = svc.Update(ctx, alice, post.ID, PostInput{Title: "ok", Content: ""})
	require.True(t, errors.As(err, &invalid))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrAuthenticationRequired, "auth_required"},
		{ErrForbidden, "forbidden"},
		{ErrNotFound, "not_found"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}
