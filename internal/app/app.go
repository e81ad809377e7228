package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/abhisek/quizbank/internal/bookmarks"
	"github.com/abhisek/quizbank/internal/catalog"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/retryqueue"
	"github.com/abhisek/quizbank/internal/store"
	"github.com/abhisek/quizbank/internal/syncer"
)

// Options configures the composition root.
type Options struct {
	// DBPath is the SQLite file for progress records. Required.
	DBPath string

	// RegistryPath is the chapter/topic registry JSON. Required.
	RegistryPath string

	// QuestionsPath is the flat question pool JSON. Optional; commands
	// that select questions need it.
	QuestionsPath string

	// SyncURL / SyncToken configure the progress service. Both default
	// from QUIZBANK_SYNC_URL / QUIZBANK_SYNC_TOKEN; sync stays disabled
	// without a URL.
	SyncURL   string
	SyncToken string

	Logger *log.Logger
}

// App holds the wired services. Close when done.
type App struct {
	Store     *store.Store
	Registry  *catalog.Registry
	Questions []catalog.Question
	Mastery   *mastery.Service
	Retries   *retryqueue.Service
	Bookmarks *bookmarks.Service

	// Sync is nil when no sync URL is configured.
	Sync *syncer.Engine
}

// New opens the store, loads the catalog, and wires every service.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	registry, err := catalog.LoadRegistry(opts.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	var questions []catalog.Question
	if opts.QuestionsPath != "" {
		questions, err = catalog.LoadQuestions(opts.QuestionsPath)
		if err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{
		Store:     st,
		Registry:  registry,
		Questions: questions,
		Mastery:   mastery.NewService(st, registry, logger),
		Retries:   retryqueue.NewService(st, logger),
		Bookmarks: bookmarks.NewService(st, logger),
	}

	syncURL := opts.SyncURL
	if syncURL == "" {
		syncURL = os.Getenv("QUIZBANK_SYNC_URL")
	}
	if syncURL != "" {
		token := syncer.TokenFunc(func() string {
			if opts.SyncToken != "" {
				return opts.SyncToken
			}
			return os.Getenv("QUIZBANK_SYNC_TOKEN")
		})
		a.Sync = syncer.NewEngine(
			syncer.NewHTTPClient(syncURL, token), token,
			a.Mastery, a.Retries, a.Bookmarks, st, logger,
		)
	}

	return a, nil
}

// Close releases the underlying store.
func (a *App) Close() error {
	return a.Store.Close()
}
