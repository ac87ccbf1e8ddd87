package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"feedgraph/internal/authz"
	"feedgraph/internal/model"
	"feedgraph/internal/platform/database/dbtest"
	"feedgraph/internal/repository"
)

const testSecret = "test-secret-key"

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.FeedEvent
}

func (p *recordingPublisher) PublishFeedEvent(_ context.Context, e model.FeedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Events() []model.FeedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.FeedEvent(nil), p.events...)
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func (r *fakeRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.revoked[id] = ttl
	return nil
}

type fixture struct {
	users         *UserService
	posts         *PostService
	comments      *CommentService
	likes         *LikeService
	follows       *FollowService
	notifications *NotificationService
	publisher     *recordingPublisher
	revoker       *fakeRevoker
	userRepo      *repository.UserRepository
	postRepo      *repository.PostRepository
	likeRepo      *repository.LikeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	feedQuery := repository.NewFeedQueryRepository(db)
	pub := &recordingPublisher{}
	revoker := &fakeRevoker{revoked: map[string]time.Duration{}}

	return &fixture{
		users:         NewUserService(userRepo, revoker, testSecret, time.Hour, bcrypt.MinCost),
		posts:         NewPostService(userRepo, postRepo, feedQuery),
		comments:      NewCommentService(postRepo, commentRepo, pub),
		likes:         NewLikeService(postRepo, likeRepo, feedQuery, pub),
		follows:       NewFollowService(userRepo, followerRepo, pub),
		notifications: NewNotificationService(repository.NewNotificationRepository(db)),
		publisher:     pub,
		revoker:       revoker,
		userRepo:      userRepo,
		postRepo:      postRepo,
		likeRepo:      likeRepo,
	}
}

func (f *fixture) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), CreateUserInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func asUser(u *model.User) context.Context {
	return authz.WithActor(context.Background(), authz.Actor{UserID: u.ID, Role: authz.RoleUser})
}

func asAdmin(u *model.User) context.Context {
	return authz.WithActor(context.Background(), authz.Actor{UserID: u.ID, Role: authz.RoleAdmin})
}
