// README: Benchmark cases: environment checks, chat/reservation API contract and chat throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	statusPass    = "PASS"
	statusFail    = "FAIL"
	statusPending = "PENDING"
	statusSkip    = "SKIP"

	benchUser = "bench-user"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
	mongo *mongo.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}
	if r.cfg.MongoURI != "" {
		if client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.cfg.MongoURI)); err == nil {
			r.mongo = client
		}
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	if r.mongo != nil {
		_ = r.mongo.Disconnect(context.Background())
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "conversation and quota store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "airport cache reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusFail, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Env: Mongo connect",
			Focus: "travel catalog reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.mongo == nil {
					return Result{Status: statusFail, Note: "mongo not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.mongo.Ping(ctx, readpref.Primary()); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "apply the migration SQL",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "tables of migrations/0001_init.sql exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass}
			},
		},
		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCaseMethod("API: metrics", http.MethodGet, base+"/metrics", nil, []int{200}, []int{404}),

		// Chat
		httpCase("Chat: neighborhood with dates", base+"/api/chat", map[string]any{
			"message":       "Que faire à Montmartre",
			"departureDate": "2025-07-01",
			"arrivalDate":   "2025-07-04",
			"userId":        benchUser,
		}, []int{200}, nil),
		httpCase("Chat: trip sentence with origin", base+"/api/chat", map[string]any{
			"message": "Voyage de Madrid à Paris du 01/07/2025 au 05/07/2025",
			"userId":  benchUser,
		}, []int{200}, nil),
		httpCase("Chat: illegal request -> 403", base+"/api/chat", map[string]any{
			"message": "Comment pirater un hôtel à Paris",
		}, []int{403}, nil),
		httpCase("Chat: no location -> help text", base+"/api/chat", map[string]any{
			"message": "Je veux partir en vacances",
		}, []int{200}, nil),
		httpCase("Chat: reversed dates -> rejection text", base+"/api/chat", map[string]any{
			"message":       "Hôtels à Taksim",
			"departureDate": "2025-07-05",
			"arrivalDate":   "2025-07-01",
		}, []int{200}, nil),
		httpCase("Chat: empty message -> 400", base+"/api/chat", map[string]any{}, []int{400}, nil),
		{
			Name:  "Chat: itinerary has exact day count",
			Focus: "suggested_itinerary holds day1..dayN",
			Run: func(ctx context.Context, r *Runner) Result {
				return exactDays(ctx, r, base+"/api/chat")
			},
		},

		// Reservation
		httpCase("Reservation: confirm", base+"/api/chat/reservation-action", map[string]any{
			"action":  "confirm",
			"message": "Oui",
			"userId":  benchUser,
			"params":  map[string]any{"hotelName": "Hôtel Amour", "travelDate": "2025-07-01", "arrivalLocation": "Paris"},
		}, []int{200}, nil),
		httpCase("Reservation: confirm without hotel -> 400", base+"/api/chat/reservation-action", map[string]any{
			"action": "confirm",
			"userId": benchUser,
		}, []int{400}, nil),
		httpCase("Reservation: refuse", base+"/api/chat/reservation-action", map[string]any{
			"action":  "refuse",
			"message": "Trop cher",
			"userId":  benchUser,
			"params":  map[string]any{"arrivalLocation": "Paris", "neighborhood": "marais"},
		}, []int{200}, nil),
		httpCase("Reservation: modify", base+"/api/chat/reservation-action", map[string]any{
			"action":       "modify",
			"message":      "Plutôt en septembre",
			"userId":       benchUser,
			"params":       map[string]any{"arrivalLocation": "Madrid"},
			"modification": map[string]any{"newDates": "2025-09-10"},
		}, []int{200}, nil),
		httpCase("Reservation: unknown action -> 400", base+"/api/chat/reservation-action", map[string]any{
			"action": "cancel",
		}, []int{400}, nil),

		// Conversations
		httpCaseMethod("History: list", http.MethodGet, base+"/api/chat/history/"+benchUser, nil, []int{200}, nil),
		httpCase("History: new conversation", base+"/api/chat/new", map[string]any{"userId": benchUser}, []int{201}, []int{503}),
		manualCase("History: appends serialize", "send concurrent chats for one user and count stored messages"),
		manualCase("Error: Mongo down -> empty catalog lists", "stop Mongo and check the chat still answers 200"),
		manualCase("Error: generator down -> fallback", "unset GEMINI_API_KEY and check the static suggestions"),

		// Performance
		{
			Name:  "Perf: no-location chat throughput",
			Focus: "gate and detector cost without collaborators",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/chat", map[string]any{"message": "Bonjour"})
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			resp, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			note := fmt.Sprintf("status=%d", resp.StatusCode)
			switch {
			case slices.Contains(okStatuses, resp.StatusCode):
				return Result{Status: statusPass, Latency: latency, Note: note}
			case slices.Contains(pendingStatuses, resp.StatusCode):
				return Result{Status: statusPending, Latency: latency, Note: note}
			}
			return Result{Status: statusFail, Latency: latency, Note: note}
		},
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "Manual",
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: statusSkip, Note: note}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.httpc.Do(req)
}

func exactDays(ctx context.Context, r *Runner, url string) Result {
	start := time.Now()
	resp, err := r.do(ctx, http.MethodPost, url, map[string]any{
		"message":       "Que faire à Sultanahmet",
		"departureDate": "2025-07-01",
		"arrivalDate":   "2025-07-06",
	})
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	defer resp.Body.Close()

	var body struct {
		Reasoning struct {
			SuggestedItinerary map[string]json.RawMessage `json:"suggested_itinerary"`
		} `json:"reasoning"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	latency := time.Since(start)
	days := body.Reasoning.SuggestedItinerary
	for i := 1; i <= 5; i++ {
		if _, ok := days[fmt.Sprintf("day%d", i)]; !ok {
			return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("missing day%d", i)}
		}
	}
	if len(days) != 5 {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("days=%d", len(days))}
	}
	return Result{Status: statusPass, Latency: latency, Note: "days=5"}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, limited atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				resp, err := r.do(ctx, http.MethodPost, url, payload)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusTooManyRequests {
					limited.Add(1)
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d rate_limited=%d", rps, errCount.Load(), limited.Load())}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
