package e2e

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/glizzus/traytimer/internal/datalayer"
	"github.com/glizzus/traytimer/internal/generator"
	"github.com/glizzus/traytimer/internal/repository"
)

var seedOnce sync.Once

// SeedGlobalNoise fills the history with records from other sessions that
// resolved long before any test runs.
func SeedGlobalNoise(t *testing.T, repo repository.HistoryPersister) {
	t.Helper()
	seedOnce.Do(func() {
		sessions := generator.UUIDV4Generator{}
		resolved := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
		for i := range 100 {
			sessionID, _ := sessions.Next()
			record := repository.Record{
				SessionID:      sessionID,
				NotificationID: uint64(i + 1),
				Kind:           "message",
				Title:          fmt.Sprintf("noise-%d", i),
				State:          "delivered",
				ScheduledAt:    resolved.Add(-time.Minute),
				FireAt:         resolved,
				ResolvedAt:     resolved,
			}
			if err := repo.Save(t.Context(), record); err != nil {
				t.Fatalf("failed to save history record: %v", err)
			}
		}
	})
}

var (
	once              sync.Once
	postgresContainer *postgres.PostgresContainer
	connStr           string
	startErr          error
	pool              *pgxpool.Pool
	wg                sync.WaitGroup
)

// UsePostgres signals that the test is using Postgres as its database.
// This will either provision or reuse a Postgres container for the test.
// Do not expect a clean state in the database; it is shared across tests
// to simulate real-world usage.
func UsePostgres(t *testing.T) string {
	t.Helper()

	once.Do(func() {
		ctx := context.Background()
		postgresContainer, startErr = postgres.Run(
			ctx,
			"postgres",
			postgres.WithDatabase("traytimer"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			postgres.BasicWaitStrategies(),
		)
		if startErr != nil {
			return
		}
		connStr, startErr = postgresContainer.ConnectionString(ctx)
		if startErr != nil {
			return
		}

		pool, startErr = pgxpool.New(ctx, connStr)
		if startErr != nil {
			return
		}
		defer pool.Close()

		startErr = datalayer.MigratePostgres(pool)
	})

	if startErr != nil {
		t.Fatalf("failed to start postgres container: %v", startErr)
	}
	wg.Add(1)
	t.Cleanup(wg.Done)

	return connStr
}

// GetRepository creates a new PostgresHistoryRepository for testing.
// It uses the provided connection string to connect to the database.
// It performs no modifications or migrations on the database schema.
func GetRepository(t *testing.T, connStr string) *repository.PostgresHistoryRepository {
	t.Helper()
	pool, err := pgxpool.New(t.Context(), connStr)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}

	t.Cleanup(pool.Close)
	return repository.NewPostgresHistoryRepository(pool)
}

func TerminatePostgresForE2E() {
	wg.Wait()
	if postgresContainer != nil {
		err := postgresContainer.Terminate(context.Background())
		if err != nil {
			fmt.Printf("failed to terminate postgres container: %v", err)
		}
	}
}

var (
	redisOnce      sync.Once
	redisContainer *tcredis.RedisContainer
	redisURL       string
	redisErr       error
	redisWG        sync.WaitGroup
)

// UseRedis provisions or reuses a Redis container and returns a client for
// it. Streams are shared across tests.
func UseRedis(t *testing.T) *redis.Client {
	t.Helper()

	redisOnce.Do(func() {
		ctx := context.Background()
		redisContainer, redisErr = tcredis.Run(ctx, "redis:7")
		if redisErr != nil {
			return
		}
		redisURL, redisErr = redisContainer.ConnectionString(ctx)
	})

	if redisErr != nil {
		t.Fatalf("failed to start redis container: %v", redisErr)
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("failed to parse redis connection string: %v", err)
	}
	client := redis.NewClient(opts)

	redisWG.Add(1)
	t.Cleanup(func() {
		_ = client.Close()
		redisWG.Done()
	})
	return client
}

func TerminateRedisForE2E() {
	redisWG.Wait()
	if redisContainer != nil {
		err := redisContainer.Terminate(context.Background())
		if err != nil {
			fmt.Printf("failed to terminate redis container: %v", err)
		}
	}
}
