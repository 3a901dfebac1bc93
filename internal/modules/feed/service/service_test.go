package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/globuddy/globuddy-server/internal/entity"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	userRepo "github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.LearningLanguage{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Like{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newService(db *gorm.DB) FeedService {
	return NewFeedService(postRepo.NewPostRepository(db), userRepo.NewUserRepository(db))
}

func seedUser(t *testing.T, db *gorm.DB, username, native string, learning ...string) {
	t.Helper()

	languages := make([]entity.LearningLanguage, 0, len(learning))
	for i, lang := range learning {
		languages = append(languages, entity.LearningLanguage{
			Language: lang,
			Level:    entity.LevelIntermediate,
			Position: i,
		})
	}

	if err := db.Create(&entity.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   "x",
		NativeLanguage: native,
		Interests:      "[]",
		Languages:      languages,
	}).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
}

func seedPost(t *testing.T, db *gorm.DB, author, content string) {
	t.Helper()
	if err := db.Create(&entity.Post{Username: author, Content: content}).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
}

// alice is a native English speaker learning Spanish. bob speaks Spanish and
// is learning English. carol speaks French and is learning German; she shares
// no language with alice.
func seedExchangeTrio(t *testing.T, db *gorm.DB) {
	t.Helper()
	seedUser(t, db, "alice", "English", "Spanish")
	seedUser(t, db, "bob", "Spanish", "English")
	seedUser(t, db, "carol", "French", "German")
}

func TestFeedMatchesOnLanguages(t *testing.T) {
	db := newTestDB(t)
	seedExchangeTrio(t, db)
	svc := newService(db)
	ctx := context.Background()

	seedPost(t, db, "bob", "hola")
	seedPost(t, db, "carol", "bonjour")

	feed, err := svc.GetFeed(ctx, "alice", 20, 0)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("alice's feed has %d posts, want 1", len(feed))
	}
	if feed[0].Username != "bob" {
		t.Errorf("feed author = %s, want bob", feed[0].Username)
	}
}

func TestFeedIncludesAuthorsLearningViewerNative(t *testing.T) {
	db := newTestDB(t)
	// dave's native language is not one alice is learning, but he is
	// learning English, so his posts still surface for alice.
	seedUser(t, db, "alice", "English", "Spanish")
	seedUser(t, db, "dave", "Italian", "English")
	svc := newService(db)

	seedPost(t, db, "dave", "ciao")

	feed, err := svc.GetFeed(context.Background(), "alice", 20, 0)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed) != 1 || feed[0].Username != "dave" {
		t.Errorf("feed = %v, want dave's post", feed)
	}
}

func TestFeedExcludesOwnPosts(t *testing.T) {
	db := newTestDB(t)
	// alice is learning her own native language's counterpart; her own posts
	// must never appear in her feed.
	seedUser(t, db, "alice", "English", "Spanish")
	svc := newService(db)

	seedPost(t, db, "alice", "my own post")

	feed, err := svc.GetFeed(context.Background(), "alice", 20, 0)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed = %d posts, want 0", len(feed))
	}
}

func TestFeedEmptyWithoutLanguages(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "blank", "")
	seedUser(t, db, "bob", "Spanish", "English")
	svc := newService(db)

	seedPost(t, db, "bob", "hola")

	feed, err := svc.GetFeed(context.Background(), "blank", 20, 0)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed for user without languages = %d posts, want 0", len(feed))
	}
}

func TestPartnersRequireMutualExchange(t *testing.T) {
	db := newTestDB(t)
	seedExchangeTrio(t, db)
	svc := newService(db)

	partners, err := svc.FindPartners(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("partners failed: %v", err)
	}
	if len(partners) != 1 {
		t.Fatalf("alice's partners = %d, want 1", len(partners))
	}
	if partners[0].Username != "bob" {
		t.Errorf("partner = %s, want bob", partners[0].Username)
	}
	if len(partners[0].Languages) != 1 || partners[0].Languages[0].Language != "English" {
		t.Errorf("partner languages = %v, want [English]", partners[0].Languages)
	}
}

func TestPartnersExcludeSameNative(t *testing.T) {
	db := newTestDB(t)
	// eve shares alice's native language, so pairing them teaches neither.
	seedUser(t, db, "alice", "English", "Spanish")
	seedUser(t, db, "eve", "English", "Spanish")
	svc := newService(db)

	partners, err := svc.FindPartners(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("partners failed: %v", err)
	}
	if len(partners) != 0 {
		t.Errorf("partners = %v, want none", partners)
	}
}

func TestPartnersExcludeSelf(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English", "Spanish")
	svc := newService(db)

	partners, err := svc.FindPartners(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("partners failed: %v", err)
	}
	for _, p := range partners {
		if p.Username == "alice" {
			t.Error("partner sample contains the viewer")
		}
	}
}

func TestPartnersRespectLimit(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English", "Spanish")
	for i := 0; i < 5; i++ {
		seedUser(t, db, fmt.Sprintf("partner%d", i), "Spanish", "English")
	}
	svc := newService(db)

	partners, err := svc.FindPartners(context.Background(), "alice", 3)
	if err != nil {
		t.Fatalf("partners failed: %v", err)
	}
	if len(partners) != 3 {
		t.Errorf("partners = %d, want 3", len(partners))
	}
}
