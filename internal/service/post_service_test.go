package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ycelik/miniblog/internal/models"
	"github.com/ycelik/miniblog/internal/repository"
	"github.com/ycelik/miniblog/internal/service"
	"github.com/ycelik/miniblog/internal/session"
	"github.com/ycelik/miniblog/internal/testutil"
)

type postFixture struct {
	db  *testutil.TestDatabase
	svc *service.PostService
}

func setupPosts(t *testing.T) *postFixture {
	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })
	testutil.CleanDatabase(t, testDB.DB)

	postRepo := repository.NewPostRepository(testDB.DB)

	return &postFixture{
		db:  testDB,
		svc: service.NewPostService(postRepo),
	}
}

func adminSession() *session.Session {
	return &session.Session{Token: "t-admin", UserID: 1, Username: "admin", Role: models.RoleAdmin}
}

func userSession() *session.Session {
	return &session.Session{Token: "t-user", UserID: 2, Username: "alice", Role: models.RoleUser}
}

func TestCreatePost_RoundTrip(t *testing.T) {
	f := setupPosts(t)

	created, err := f.svc.CreatePost("First post", "Hello, world")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := f.svc.GetPost(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First post", got.Title)
	assert.Equal(t, "Hello, world", got.Text)
}

func TestCreatePost_Validation(t *testing.T) {
	f := setupPosts(t)

	testCases := []struct {
		name  string
		title string
		text  string
	}{
		{name: "empty_title", title: "", text: "x"},
		{name: "empty_text", title: "x", text: ""},
		{name: "title_too_long", title: strings.Repeat("a", 256), text: "x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePost(tc.title, tc.text)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}

	var count int64
	f.db.DB.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 0, count, "Failed creates must not persist a row")
}

func TestCreatePost_MultibyteTitleLength(t *testing.T) {
	f := setupPosts(t)

	// 255 two-byte runes exceed 255 bytes but the limit counts characters
	_, err := f.svc.CreatePost(strings.Repeat("ş", 255), "x")
	assert.NoError(t, err)

	_, err = f.svc.CreatePost(strings.Repeat("ş", 256), "x")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestListPosts_AllInsertionOrder(t *testing.T) {
	f := setupPosts(t)

	for i := 1; i <= 3; i++ {
		_, err := f.svc.CreatePost(fmt.Sprintf("Post %d", i), "body")
		require.NoError(t, err)
	}

	posts, err := f.svc.ListPosts(service.ListModeAll)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Post 1", posts[0].Title)
	assert.Equal(t, "Post 3", posts[2].Title)
}

func TestListPosts_LatestNewestFirstCapped(t *testing.T) {
	f := setupPosts(t)

	for i := 1; i <= 25; i++ {
		_, err := f.svc.CreatePost(fmt.Sprintf("Post %d", i), "body")
		require.NoError(t, err)
	}

	posts, err := f.svc.ListPosts(service.ListModeLatest)
	require.NoError(t, err)
	require.Len(t, posts, service.RecentLimit)
	assert.Equal(t, "Post 25", posts[0].Title, "Newest first")
	assert.Equal(t, "Post 6", posts[len(posts)-1].Title)
}

func TestGetPost_NotFound(t *testing.T) {
	f := setupPosts(t)

	_, err := f.svc.GetPost(999)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestDeletePost_ForbiddenForUserRole(t *testing.T) {
	f := setupPosts(t)

	created, err := f.svc.CreatePost("Keep me", "body")
	require.NoError(t, err)

	err = f.svc.DeletePost(userSession(), created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// The post is untouched
	got, err := f.svc.GetPost(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Title)
}

func TestDeletePost_ForbiddenForAnonymous(t *testing.T) {
	f := setupPosts(t)

	created, err := f.svc.CreatePost("Keep me", "body")
	require.NoError(t, err)

	err = f.svc.DeletePost(nil, created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeletePost_AdminDeletesThenNotFound(t *testing.T) {
	f := setupPosts(t)

	created, err := f.svc.CreatePost("Delete me", "body")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePost(adminSession(), created.ID))

	_, err = f.svc.GetPost(created.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound, "Delete is permanent")

	// A repeat delete of the same id observes NotFound, not a crash
	err = f.svc.DeletePost(adminSession(), created.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestDeletePost_MissingID(t *testing.T) {
	f := setupPosts(t)

	err := f.svc.DeletePost(adminSession(), 12345)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestCreatePost_StoreFailure(t *testing.T) {
	f := setupPosts(t)

	f.db.Teardown(t)

	_, err := f.svc.CreatePost("T", "B")
	assert.ErrorIs(t, err, service.ErrPersistence)
}

func TestDeletePost_StoreFailure(t *testing.T) {
	f := setupPosts(t)

	created, err := f.svc.CreatePost("T", "B")
	require.NoError(t, err)

	f.db.Teardown(t)

	err = f.svc.DeletePost(adminSession(), created.ID)
	assert.ErrorIs(t, err, service.ErrPersistence,
		"A dead store must not report the post as missing")
}

// TestFullLifecycle walks the whole flow: registration, duplicate rejection,
// login, posting, listing, the forbidden delete, and the admin delete.
func TestFullLifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })
	testutil.CleanDatabase(t, testDB.DB)

	testRedis := testutil.SetupTestRedis(t)
	t.Cleanup(func() { testRedis.Teardown(t) })

	sessions, err := session.NewStore(testRedis.URL, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	authSvc := service.NewAuthService(repository.NewUserRepository(testDB.DB), sessions)
	postSvc := service.NewPostService(repository.NewPostRepository(testDB.DB))
	ctx := context.Background()

	// register("alice","pw1") -> ok
	_, err = authSvc.Register("alice", "pw1")
	require.NoError(t, err)

	// register("alice","pw2") -> duplicate
	_, err = authSvc.Register("alice", "pw2")
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	// login("alice","pw1") -> session with role user
	_, aliceSess, err := authSvc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, aliceSess.Role)

	// createPost("T","B") -> Post{id=1}
	post, err := postSvc.CreatePost("T", "B")
	require.NoError(t, err)
	require.EqualValues(t, 1, post.ID)
	require.Equal(t, "T", post.Title)
	require.Equal(t, "B", post.Text)

	// listPosts("all") -> [Post{id=1}]
	posts, err := postSvc.ListPosts(service.ListModeAll)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.EqualValues(t, 1, posts[0].ID)

	// deletePost as alice (role user) -> Forbidden
	require.ErrorIs(t, postSvc.DeletePost(aliceSess, post.ID), service.ErrForbidden)

	// admin session deletePost -> ok
	admin, err := testutil.DefaultAdminUser()
	require.NoError(t, err)
	require.NoError(t, testDB.DB.Create(admin).Error)

	adminSess, err := sessions.Create(ctx, admin)
	require.NoError(t, err)
	require.NoError(t, postSvc.DeletePost(adminSess, post.ID))

	// listPosts("all") -> []
	posts, err = postSvc.ListPosts(service.ListModeAll)
	require.NoError(t, err)
	require.Empty(t, posts)
}
