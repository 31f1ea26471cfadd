// Package app wires the feature handlers into their request pipelines
// and exposes the lending system's public surface. Every command and
// query runs through the same fixed stage order: logging outermost,
// then validation, then caching, then the handler.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/features/command/borrowbook"
	"github.com/librarylab/lending-go/features/command/returnbook"
	"github.com/librarylab/lending-go/features/query/alsoborrowed"
	"github.com/librarylab/lending-go/features/query/mostborrowed"
	"github.com/librarylab/lending-go/features/query/readingpace"
	"github.com/librarylab/lending-go/features/query/topborrowers"
	"github.com/librarylab/lending-go/shell"
	"github.com/librarylab/lending-go/shell/memcache"
	"github.com/librarylab/lending-go/shell/pipeline"
)

// App is the composed lending application. Construct it once with New
// and share it; all methods are safe for concurrent use as long as the
// underlying repositories are.
type App struct {
	books shell.BookRepository
	users shell.UserRepository
	loans shell.LoanRepository

	borrowBook   shell.Handler[borrowbook.Command, borrowbook.Result]
	returnBook   shell.Handler[returnbook.Command, returnbook.Result]
	mostBorrowed shell.Handler[mostborrowed.Query, mostborrowed.Result]
	topBorrowers shell.Handler[topborrowers.Query, topborrowers.Result]
	alsoBorrowed shell.Handler[alsoborrowed.Query, alsoborrowed.Result]
	readingPace  shell.Handler[readingpace.Query, readingpace.Result]
}

type config struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	cache            *memcache.Cache
}

// Option configures the App.
type Option func(*config)

// WithLogger sets the basic logger used by the logging stage.
func WithLogger(logger shell.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithContextualLogger sets the context-aware logger used by the
// logging stage. It takes precedence over the basic logger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(c *config) {
		c.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector used by the logging stage.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *config) {
		c.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector used by the logging stage.
func WithTracing(collector shell.TracingCollector) Option {
	return func(c *config) {
		c.tracingCollector = collector
	}
}

// WithCache sets the shared response cache used by the caching stage
// for cacheable queries. Without it, queries always hit storage.
func WithCache(cache *memcache.Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// New composes the application from its storage ports and options.
func New(
	books shell.BookRepository,
	users shell.UserRepository,
	loans shell.LoanRepository,
	options ...Option,
) *App {
	cfg := config{}
	for _, option := range options {
		option(&cfg)
	}

	loggingOptions := []pipeline.LoggingOption{
		pipeline.WithLogger(cfg.logger),
		pipeline.WithContextualLogger(cfg.contextualLogger),
		pipeline.WithMetrics(cfg.metricsCollector),
		pipeline.WithTracing(cfg.tracingCollector),
	}

	return &App{
		books: books,
		users: users,
		loans: loans,

		borrowBook: pipeline.Chain[borrowbook.Command, borrowbook.Result](
			borrowbook.NewCommandHandler(users, books, loans),
			pipeline.Logging[borrowbook.Command, borrowbook.Result](loggingOptions...),
			pipeline.Validation[borrowbook.Command, borrowbook.Result](borrowbook.NewValidator()),
			pipeline.Caching[borrowbook.Command, borrowbook.Result](cfg.cache),
		),

		returnBook: pipeline.Chain[returnbook.Command, returnbook.Result](
			returnbook.NewCommandHandler(loans),
			pipeline.Logging[returnbook.Command, returnbook.Result](loggingOptions...),
			pipeline.Validation[returnbook.Command, returnbook.Result](returnbook.NewValidator()),
			pipeline.Caching[returnbook.Command, returnbook.Result](cfg.cache),
		),

		mostBorrowed: pipeline.Chain[mostborrowed.Query, mostborrowed.Result](
			mostborrowed.NewQueryHandler(loans),
			pipeline.Logging[mostborrowed.Query, mostborrowed.Result](loggingOptions...),
			pipeline.Validation[mostborrowed.Query, mostborrowed.Result](mostborrowed.NewValidator()),
			pipeline.Caching[mostborrowed.Query, mostborrowed.Result](cfg.cache),
		),

		topBorrowers: pipeline.Chain[topborrowers.Query, topborrowers.Result](
			topborrowers.NewQueryHandler(loans),
			pipeline.Logging[topborrowers.Query, topborrowers.Result](loggingOptions...),
			pipeline.Validation[topborrowers.Query, topborrowers.Result](topborrowers.NewValidator()),
			pipeline.Caching[topborrowers.Query, topborrowers.Result](cfg.cache),
		),

		alsoBorrowed: pipeline.Chain[alsoborrowed.Query, alsoborrowed.Result](
			alsoborrowed.NewQueryHandler(loans),
			pipeline.Logging[alsoborrowed.Query, alsoborrowed.Result](loggingOptions...),
			pipeline.Validation[alsoborrowed.Query, alsoborrowed.Result](alsoborrowed.NewValidator()),
			pipeline.Caching[alsoborrowed.Query, alsoborrowed.Result](cfg.cache),
		),

		readingPace: pipeline.Chain[readingpace.Query, readingpace.Result](
			readingpace.NewQueryHandler(users, loans),
			pipeline.Logging[readingpace.Query, readingpace.Result](loggingOptions...),
			pipeline.Validation[readingpace.Query, readingpace.Result](readingpace.NewValidator()),
			pipeline.Caching[readingpace.Query, readingpace.Result](cfg.cache),
		),
	}
}

// BorrowBook runs the borrow pipeline for the given command.
func (a *App) BorrowBook(ctx context.Context, command borrowbook.Command) (borrowbook.Result, error) {
	return a.borrowBook.Handle(ctx, command)
}

// ReturnBook runs the return pipeline for the given command.
func (a *App) ReturnBook(ctx context.Context, command returnbook.Command) (returnbook.Result, error) {
	return a.returnBook.Handle(ctx, command)
}

// MostBorrowed runs the most-borrowed-books query pipeline.
func (a *App) MostBorrowed(ctx context.Context, query mostborrowed.Query) (mostborrowed.Result, error) {
	return a.mostBorrowed.Handle(ctx, query)
}

// TopBorrowers runs the top-borrowers query pipeline.
func (a *App) TopBorrowers(ctx context.Context, query topborrowers.Query) (topborrowers.Result, error) {
	return a.topBorrowers.Handle(ctx, query)
}

// AlsoBorrowed runs the also-borrowed query pipeline.
func (a *App) AlsoBorrowed(ctx context.Context, query alsoborrowed.Query) (alsoborrowed.Result, error) {
	return a.alsoBorrowed.Handle(ctx, query)
}

// ReadingPace runs the reading-pace query pipeline.
func (a *App) ReadingPace(ctx context.Context, query readingpace.Query) (readingpace.Result, error) {
	return a.readingPace.Handle(ctx, query)
}

// CreateBook registers a new book in the catalog, generating its id.
// Validation happens in core.NewBook and surfaces as InvalidArgument.
func (a *App) CreateBook(ctx context.Context, isbn string, title string, author string, pageCount int, publishedYear int) (core.Book, error) {
	book, err := core.NewBook(uuid.New(), isbn, title, author, pageCount, publishedYear)
	if err != nil {
		return core.Book{}, err
	}

	if err := a.books.Add(ctx, book); err != nil {
		return core.Book{}, err
	}

	return book, nil
}

// CreateUser registers a new user, generating their id.
func (a *App) CreateUser(ctx context.Context, fullName string, registeredAt time.Time) (core.User, error) {
	user, err := core.NewUser(uuid.New(), fullName, registeredAt)
	if err != nil {
		return core.User{}, err
	}

	if err := a.users.Add(ctx, user); err != nil {
		return core.User{}, err
	}

	return user, nil
}

// ListBooks returns the whole catalog ordered by title.
func (a *App) ListBooks(ctx context.Context) ([]core.Book, error) {
	return a.books.GetAll(ctx)
}

// ListUsers returns all registered users ordered by registration time.
func (a *App) ListUsers(ctx context.Context) ([]core.User, error) {
	return a.users.GetAll(ctx)
}
