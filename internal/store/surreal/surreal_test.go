//go:build integration

// Integration tests for the SurrealDB store. Run with:
//
//	go test -tags integration ./internal/store/surreal/
package surreal

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/contentiq/contentiq/internal/models"
)

var testClient *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testClient, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testClient.InitSchema(ctx, 3); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testClient.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

type staticEmbedder struct{}

func (staticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 0}, nil
}

func (staticEmbedder) Model() string { return "static-test" }

func TestArticleRoundTrip(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { _ = testClient.WipeData(ctx) })

	article := models.PublishedArticle{
		ID:           "react-hooks-guide",
		Slug:         "react-hooks-guide",
		Title:        "React Hooks Guide",
		Content:      "<p>React hooks let you use state in function components.</p>",
		FocusKeyword: "react hooks",
	}
	if err := testClient.UpsertArticle(ctx, article); err != nil {
		t.Fatalf("UpsertArticle failed: %v", err)
	}

	got, err := testClient.GetArticle(ctx, "react-hooks-guide")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got == nil || got.Title != article.Title {
		t.Fatalf("GetArticle returned %+v, want title %q", got, article.Title)
	}

	list, err := testClient.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListPublished returned %d articles, want 1", len(list))
	}

	missing, err := testClient.GetArticle(ctx, "does-not-exist")
	if err != nil {
		t.Fatalf("GetArticle for missing slug failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing article, got %+v", missing)
	}
}

func TestEmbeddingCacheReadYourWrites(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { _ = testClient.WipeData(ctx) })

	cache := NewCache(testClient, staticEmbedder{})

	first, err := cache.GetOrCreate(ctx, "article-1", "hello")
	if err != nil {
		t.Fatalf("GetOrCreate (miss) failed: %v", err)
	}

	second, err := cache.GetOrCreate(ctx, "article-1", "different text, same id")
	if err != nil {
		t.Fatalf("GetOrCreate (hit) failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("vector lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cache did not return the stored vector: %v vs %v", first, second)
		}
	}
}

func TestUpsertInvalidatesEmbedding(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { _ = testClient.WipeData(ctx) })

	cache := NewCache(testClient, staticEmbedder{})

	if _, err := cache.GetOrCreate(ctx, "a1", "version one"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	err := testClient.UpsertArticle(ctx, models.PublishedArticle{
		ID: "a1", Slug: "a1", Title: "t", Content: "version two", FocusKeyword: "kw",
	})
	if err != nil {
		t.Fatalf("UpsertArticle failed: %v", err)
	}

	vector, err := testClient.GetEmbedding(ctx, "a1")
	if err != nil {
		t.Fatalf("GetEmbedding failed: %v", err)
	}
	if vector != nil {
		t.Error("upsert should have dropped the cached embedding")
	}
}
