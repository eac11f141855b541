package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	notificationuc "github.com/shandysiswandi/resetmail/internal/notification/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/goroutine"
	"github.com/shandysiswandi/resetmail/internal/pkg/hash"
	"github.com/shandysiswandi/resetmail/internal/pkg/i18n"
	"github.com/shandysiswandi/resetmail/internal/pkg/idempotency"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/jwt"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
	"github.com/shandysiswandi/resetmail/internal/pkg/storage"
	"github.com/shandysiswandi/resetmail/internal/pkg/uid"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
)

// Options selects how much of the application New wires.
type Options struct {
	// ConfigPath overrides CONFIG_PATH and the default location.
	ConfigPath string
	// Command wires only what one-shot CLI commands need: no HTTP server,
	// database, broker consumers or background flusher.
	Command bool
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine  *goroutine.Manager
	validator  validator.Validator
	clock      clock.Clocker
	hmac       hash.Hash
	bcrypt     hash.Hash
	uuid       uid.StringID
	token      uid.StringID
	jwt        jwt.JWT
	translator *i18n.UniversalTranslator

	// resources
	dbConn         *pgxpool.Pool
	cacheConn      *redis.Client
	idemp          idempotency.Idempotency
	storage        storage.Storage
	mail           mail.Mail
	mailDriver     string
	spool          *mail.Spool
	flushTransport mail.Mail
	messaging      messaging.Messaging
	casbin         *casbin.Enforcer

	// modules
	notification *notificationuc.Usecase

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initTranslator()
	app.initStorage()
	app.initMail()
	if !opts.Command {
		app.initDatabase()
		app.initCache()
		app.initMessaging()
		app.initCasbin()
		app.initHTTPServer()
	}
	app.initModules()
	app.initClosers()

	return app
}

// Notification exposes the notification usecase to CLI commands.
func (a *App) Notification() *notificationuc.Usecase {
	return a.notification
}

// JWT returns the operator token issuer, nil when jwt.secret is unset.
func (a *App) JWT() jwt.JWT {
	return a.jwt
}
