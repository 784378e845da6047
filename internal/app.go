package internal

import (
	"context"

	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/events"
	"github.com/2beens/repcoach/internal/history"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/mcp"
	"github.com/2beens/repcoach/internal/progression"
	"github.com/2beens/repcoach/internal/sessions"
	"github.com/2beens/repcoach/internal/telemetry/metrics"
	"github.com/2beens/repcoach/internal/templates"

	"github.com/jackc/pgx/v5/pgxpool"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
)

type usersStore interface {
	GetBySubject(ctx context.Context, subject string) (*identity.User, error)
	Add(ctx context.Context, user identity.User) (*identity.User, error)
}

type exercisesStore interface {
	Add(ctx context.Context, exercise catalog.Exercise) (*catalog.Exercise, error)
	Get(ctx context.Context, id int64) (*catalog.Exercise, error)
	GetMultiple(ctx context.Context, ids []int64) (map[int64]catalog.Exercise, error)
	ListByBodyPart(ctx context.Context, bodyPart string) ([]catalog.Exercise, error)
}

type templatesStore interface {
	Add(ctx context.Context, template templates.Template) (*templates.Template, error)
	Get(ctx context.Context, id int64) (*templates.Template, error)
	Replace(ctx context.Context, template templates.Template) error
	ListByBodyPart(ctx context.Context, bodyPart string) ([]templates.Template, error)
	Delete(ctx context.Context, id int64) error
}

type profilesStore interface {
	GetForExercises(ctx context.Context, userID int64, exerciseIDs []int64) (map[int64]progression.Profile, error)
	Upsert(ctx context.Context, key progression.Key, update func(*progression.Profile)) (*progression.Profile, error)
}

type sessionsStore interface {
	Add(ctx context.Context, session sessions.Session) error
	Get(ctx context.Context, sessionID string) (*sessions.Session, error)
	Replace(ctx context.Context, session sessions.Session) error
	ListForIdentity(ctx context.Context, scope identity.Scope) ([]sessions.Session, error)
}

type eventsStore interface {
	Add(ctx context.Context, event events.Event) (*events.Event, error)
	ListForSession(ctx context.Context, sessionID string) ([]events.Event, error)
}

type assessmentsStore interface {
	Add(ctx context.Context, assessment history.Assessment) (*history.Assessment, error)
	Latest(ctx context.Context, filter history.AssessmentFilter) (map[int64]history.Assessment, error)
}

// stores is the persistence the workout core runs on.
type stores struct {
	users       usersStore
	exercises   exercisesStore
	templates   templatesStore
	profiles    profilesStore
	sessions    sessionsStore
	events      eventsStore
	assessments assessmentsStore
}

func newPostgresStores(dbPool *pgxpool.Pool) stores {
	return stores{
		users:       identity.NewRepo(dbPool),
		exercises:   catalog.NewRepo(dbPool),
		templates:   templates.NewRepo(dbPool),
		profiles:    progression.NewRepo(dbPool),
		sessions:    sessions.NewStore(dbPool),
		events:      events.NewRepo(dbPool),
		assessments: history.NewRepo(dbPool),
	}
}

// application wires the domain services on top of the stores.
type application struct {
	resolver  *identity.Resolver
	exercises *catalog.CachedRepo
	templates *templates.Service
	journal   *events.Service
	engine    *sessions.Engine
	history   *history.Service
}

func newApplication(s stores, cfg *config.Config, metricsManager *metrics.Manager) *application {
	resolver := identity.NewResolver(s.users)
	exercises := catalog.NewCachedRepo(s.exercises, cfg.CatalogCacheSizeMB)
	templatesService := templates.NewService(s.templates, templates.NewValidator(exercises))
	journal := events.NewService(s.events)

	engine := sessions.NewEngine(sessions.EngineParams{
		Store:       s.sessions,
		Templates:   templatesService,
		Exercises:   exercises,
		Profiles:    s.profiles,
		Resolver:    resolver,
		Journal:     journal,
		Metrics:     metricsManager,
		MaxAttempts: cfg.SessionMutationAttempts,
	})

	historyService := history.NewService(history.ServiceParams{
		Assessments: s.assessments,
		Sessions:    s.sessions,
		Profiles:    s.profiles,
		Resolver:    resolver,
		Metrics:     metricsManager,
	})

	return &application{
		resolver:  resolver,
		exercises: exercises,
		templates: templatesService,
		journal:   journal,
		engine:    engine,
		history:   historyService,
	}
}

// NewMCPServer builds the MCP tool server on top of postgres, for
// processes that serve MCP without the HTTP API around it.
func NewMCPServer(dbPool *pgxpool.Pool, cfg *config.Config, versionInfo string) *mcpserver.MCPServer {
	metricsManager := metrics.NewManager("repcoach", "mcp", prometheus.NewRegistry())
	app := newApplication(newPostgresStores(dbPool), cfg, metricsManager)
	return mcp.New(app.history, app.engine, versionInfo)
}
