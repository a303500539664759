// Package app is the composition root: it reads configuration from the
// environment, wires every collaborator package into the five core
// components plus ReadHistory, and returns the runnable Components the
// entrypoint hands to an errgroup — the same shape as the teacher's own
// internal/app/app.go.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pinecone-io/go-pinecone/pinecone"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/embedding"
	"github.com/arclight-news/newsline-core/internal/embedding/voyage"
	"github.com/arclight-news/newsline-core/internal/index"
	"github.com/arclight-news/newsline-core/internal/index/mysqldoc"
	"github.com/arclight-news/newsline-core/internal/index/vector"
	"github.com/arclight-news/newsline-core/internal/metrics"
	"github.com/arclight-news/newsline-core/internal/personalization"
	"github.com/arclight-news/newsline-core/internal/readhistory"
	"github.com/arclight-news/newsline-core/internal/similarity"
	"github.com/arclight-news/newsline-core/internal/store"
	httprouter "github.com/arclight-news/newsline-core/internal/transport/http/router"
	"github.com/arclight-news/newsline-core/internal/transport/http/server"
)

// Component is a runnable piece of the server, started concurrently by
// the entrypoint's errgroup.
type Component interface {
	Run(ctx context.Context) error
}

// Setup builds every collaborator from environment configuration and
// returns the HTTP server as the sole top-level Component.
func Setup(ctx context.Context) ([]Component, error) {
	kv, err := setupStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up backing store: %w", err)
	}

	gateway, err := setupGateway(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up index gateway: %w", err)
	}

	embedder, err := setupEmbedder(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up embedder: %w", err)
	}

	cacheLayer := cache.NewLayer(kv)
	prefsStore := personalization.NewPreferencesStore(kv)
	readTracker := readhistory.NewTracker(kv)
	metricsTracker := metrics.NewTracker(kv, gateway)
	similarityEngine := similarity.NewEngine(gateway, cacheLayer, embedder)
	personalizationEngine := personalization.NewEngine(gateway, cacheLayer, prefsStore, readTracker, embedder)

	authMiddleware, requireAdminAuth, err := setupAuthMiddleware(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up auth middleware: %w", err)
	}

	httpRouter := httprouter.MakeRouter(httprouter.Dependencies{
		Gateway:               gateway,
		Cache:                 cacheLayer,
		Metrics:               metricsTracker,
		Reads:                 readTracker,
		SimilarityEngine:      similarityEngine,
		PersonalizationEngine: personalizationEngine,
		Prefs:                 prefsStore,
		AuthMiddleware:        authMiddleware,
		RequireAdminAuth:      requireAdminAuth,
	})

	return []Component{
		&server.Server{
			Port:   GetEnvAsIntOr("PORT", 3001),
			Router: httpRouter,
		},
	}, nil
}

func setupStore(ctx context.Context) (*store.Store, error) {
	dir := GetEnvAsStringOr("BADGER_DIR", "")
	if dir == "" {
		return store.OpenInMemory()
	}
	return store.Open(dir)
}

func setupGateway(ctx context.Context) (*index.Gateway, error) {
	db, err := mysqldoc.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"),
		GetEnvAsIntOr("MYSQL_MAX_OPEN_CONNS", 10), GetEnvAsIntOr("MYSQL_MAX_IDLE_CONNS", 10))
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL: %w", err)
	}
	docs := mysqldoc.New(db)

	vectors, err := setupVectorIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up vector index: %w", err)
	}

	return index.NewGateway(docs, vectors), nil
}

func setupVectorIndex(ctx context.Context) (index.VectorIndex, error) {
	switch driver := GetEnvAsStringOr("VECTOR_DRIVER", "pinecone"); driver {
	case "null":
		return index.NullVectorIndex{}, nil
	case "pinecone":
		client, err := vector.NewClient(ctx, MustGetEnvAsString(ctx, "PINECONE_API_KEY"), vector.Config{
			IndexName: MustGetEnvAsString(ctx, "PINECONE_INDEX_NAME"),
			Namespace: GetEnvAsStringOr("PINECONE_NAMESPACE", ""),
			Dimension: int32(MustGetEnvAsInt(ctx, "VECTOR_DIMENSION")),
			Metric:    pinecone.Cosine,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to pinecone: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown vector driver [%s]", driver)
	}
}

func setupEmbedder(ctx context.Context) (embedding.Embedder, error) {
	switch driver := GetEnvAsStringOr("EMBEDDER_DRIVER", "null"); driver {
	case "null":
		return embedding.NullEmbedder{}, nil
	case "voyage":
		return voyage.NewClient(
			MustGetEnvAsString(ctx, "VOYAGE_API_KEY"),
			GetEnvAsStringOr("VOYAGE_MODEL", "voyage-3"),
			MustGetEnvAsInt(ctx, "VECTOR_DIMENSION"),
		), nil
	default:
		return nil, fmt.Errorf("unknown embedder driver [%s]", driver)
	}
}

// setupAuthMiddleware builds the opt-in auth0 guard over the admin
// surface. Unset AUTH_DRIVER leaves both the middleware and the admin
// guard disabled, matching the spec's "no auth system" Non-goal while
// keeping the teacher's defense-in-depth option available.
func setupAuthMiddleware(ctx context.Context) (func(http.Handler) http.Handler, bool, error) {
	switch driver := GetEnvAsStringOr("AUTH_DRIVER", ""); driver {
	case "":
		return nil, false, nil
	case "auth0":
		mw, err := httprouter.SetupAuth0Middleware(
			MustGetEnvAsString(ctx, "AUTH0_DOMAIN"),
			MustGetEnvAsString(ctx, "AUTH0_AUDIENCE"),
		)
		if err != nil {
			return nil, false, fmt.Errorf("creating auth0 middleware: %w", err)
		}
		return mw, true, nil
	default:
		return nil, false, fmt.Errorf("unknown auth driver [%s]", driver)
	}
}
