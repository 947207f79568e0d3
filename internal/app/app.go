package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/dispatchd/dispatchd/config"
	"github.com/dispatchd/dispatchd/internal/database"
	"github.com/dispatchd/dispatchd/internal/domain"
	httphandler "github.com/dispatchd/dispatchd/internal/http"
	"github.com/dispatchd/dispatchd/internal/http/middleware"
	"github.com/dispatchd/dispatchd/internal/repository"
	"github.com/dispatchd/dispatchd/internal/service"
	"github.com/dispatchd/dispatchd/pkg/logger"
)

// AppInterface is the surface the entrypoint and tests program against
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
}

// App wires configuration, storage, the send pipeline and the HTTP API
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	mux    *http.ServeMux
	server *http.Server
	mailer domain.MailSender

	// Repositories
	requestRepo domain.EmailRequestRepository
	resultRepo  domain.EmailResultRepository

	// Services
	messageService  *service.MessageService
	topicService    *service.TopicService
	callbackService *service.CallbackService
	scheduler       *service.Scheduler
	sender          *service.Sender
	postSendWriter  *service.PostSendWriter

	// Pipeline queues. The send queue feeds the rate gate; outcomes flow
	// back to the single post-send writer.
	sendQueue chan *domain.EmailRequest
	outcomes  chan *domain.EmailRequest

	pipelineCtx    context.Context
	pipelineCancel context.CancelFunc
}

// AppOption defines a function that configures an App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMailSender overrides the SES-backed sender
func WithMailSender(m domain.MailSender) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	pipelineCtx, pipelineCancel := context.WithCancel(context.Background())

	app := &App{
		config:         cfg,
		logger:         logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:            http.NewServeMux(),
		sendQueue:      make(chan *domain.EmailRequest, cfg.Dispatch.SendQueueSize),
		outcomes:       make(chan *domain.EmailRequest, cfg.Dispatch.OutcomeQueueSize),
		pipelineCtx:    pipelineCtx,
		pipelineCancel: pipelineCancel,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitDB connects to the database and bootstraps the schema
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	db, err := database.Connect(&a.config.Database)
	if err != nil {
		return err
	}

	a.db = db
	a.logger.Info("Database connection established")
	return nil
}

// InitRepositories initializes the repositories
func (a *App) InitRepositories() error {
	a.requestRepo = repository.NewEmailRequestRepository(a.db)
	a.resultRepo = repository.NewEmailResultRepository(a.db)
	return nil
}

// InitServices initializes the services and the pipeline stages
func (a *App) InitServices() error {
	if a.mailer == nil {
		a.mailer = service.NewSESMailSender(a.config.SES.Region, a.logger)
	}

	a.messageService = service.NewMessageService(a.requestRepo, a.logger, a.sendQueue)
	a.topicService = service.NewTopicService(a.requestRepo, a.resultRepo, a.logger)
	a.callbackService = service.NewCallbackService(a.requestRepo, a.resultRepo, a.logger)

	a.scheduler = service.NewScheduler(
		a.requestRepo,
		a.logger,
		a.sendQueue,
		a.config.Dispatch.SchedulerBatch,
		time.Duration(a.config.Dispatch.SchedulerPollSecs)*time.Second,
	)
	a.sender = service.NewSender(
		a.mailer,
		a.logger,
		a.sendQueue,
		a.outcomes,
		a.config.SES.FromEmail,
		a.config.Server.URL,
		a.config.Dispatch.MaxSendPerSecond,
	)
	a.postSendWriter = service.NewPostSendWriter(a.requestRepo, a.logger, a.outcomes)

	return nil
}

// InitHandlers initializes the HTTP handlers and routes
func (a *App) InitHandlers() error {
	auth := middleware.NewAuthMiddleware(a.config.JWTSecret)

	httphandler.NewMessageHandler(a.messageService, auth, a.logger).RegisterRoutes(a.mux)
	httphandler.NewTopicHandler(a.topicService, auth, a.logger).RegisterRoutes(a.mux)
	httphandler.NewEventHandler(a.callbackService, a.topicService, a.resultRepo, auth, a.logger).RegisterRoutes(a.mux)

	return nil
}

// Initialize prepares the app for starting
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := a.InitRepositories(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	if err := a.InitServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := a.InitHandlers(); err != nil {
		return fmt.Errorf("failed to initialize handlers: %w", err)
	}
	return nil
}

// Start launches the pipeline goroutines and serves HTTP until the
// listener fails or Shutdown is called.
func (a *App) Start() error {
	go a.scheduler.Run(a.pipelineCtx)
	go a.sender.Run(a.pipelineCtx)
	go a.postSendWriter.Run(a.pipelineCtx)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.mux,
	}

	a.logger.WithField("address", addr).Info("Server starting")
	return a.server.ListenAndServe()
}

// Shutdown drains the HTTP server, then stops the pipeline
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err.Error()).Error("HTTP server shutdown failed")
		}
	}

	// Stop the pipeline only after the server stopped accepting requests:
	// in-flight ingests may still be pushing onto the send queue.
	a.pipelineCancel()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	a.logger.Info("Shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the application logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the HTTP request multiplexer
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the database connection
func (a *App) GetDB() *sql.DB {
	return a.db
}

var _ AppInterface = (*App)(nil)
