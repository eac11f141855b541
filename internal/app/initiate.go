package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/resetmail/internal/identity/inbound"
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
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const (
	spoolStoreFile   = "file"
	spoolStoreObject = "object"

	resetTokenBytes = 32

	pubsubScope = "https://www.googleapis.com/auth/pubsub"
)

func (a *App) initConfig() {
	path := a.opts.ConfigPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled") && !a.opts.Command,
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.token = uid.NewToken(resetTokenBytes)
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initJWT() {
	secret := a.config.GetString("jwt.secret")
	if secret == "" {
		slog.Warn("jwt.secret is empty, operator endpoints will reject every request")
		return
	}

	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(secret),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initTranslator() {
	tr, err := i18n.NewUniversalTranslator(i18n.Config{
		Dir:             strings.TrimSpace(a.config.GetString("translation.dir")),
		FallbackLocales: a.config.GetArray("translation.fallback_locales"),
	})
	if err != nil {
		slog.Error("failed to init translator", "error", err)
		os.Exit(1)
	}
	a.translator = tr
}

// ping retries fn with a capped fibonacci backoff so the service survives
// dependencies that start after it.
func (a *App) ping(name string, fn func(ctx context.Context) error) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxDuration(15*time.Second, b)

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := fn(pingCtx); err != nil {
			slog.Warn("dependency not ready, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initDatabase() {
	dsn := a.config.GetString("database.url")
	if dsn == "" {
		return
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.ping("database", pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	url := a.config.GetString("redis.url")
	if url == "" {
		slog.Warn("redis.url is empty, redelivered events will not be deduplicated")
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := a.ping("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(a.cacheConn)
}

func (a *App) googleOptions(prefix string, scopes ...string) []option.ClientOption {
	var opts []option.ClientOption
	if v := a.config.GetBinary(prefix + ".credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, scopes...)
		if err != nil {
			slog.Error("failed to parse google credentials json", "key", prefix, "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString(prefix + ".endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v), option.WithoutAuthentication())
	}
	return opts
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))
	if driver == "" {
		return
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Bucket:       strings.TrimSpace(a.config.GetString("storage.s3.bucket")),
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			Bucket:        strings.TrimSpace(a.config.GetString("storage.gcs.bucket")),
			ClientOptions: a.googleOptions("storage.gcs", gcs.ScopeFullControl),
		},
		MinIO: storage.MinIOOptions{
			Bucket:    strings.TrimSpace(a.config.GetString("storage.minio.bucket")),
			Region:    strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:  strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey: strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey: strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			UseSSL:    a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.storage = stg
}

func (a *App) spoolStore() mail.SpoolStore {
	switch kind := a.config.GetString("mail.spool.store"); kind {
	case spoolStoreFile, "":
		return mail.NewFileStore(a.config.GetString("mail.spool.dir"))
	case spoolStoreObject:
		if a.storage == nil {
			slog.Error("failed to init mail spool, object store needs storage.driver")
			os.Exit(1)
		}
		return mail.NewObjectStore(a.storage, a.config.GetString("mail.spool.prefix"))
	default:
		slog.Error("failed to init mail spool, unknown store", "store", kind)
		os.Exit(1)
		return nil
	}
}

func (a *App) initMail() {
	opts := mail.FactoryOptions{
		From: a.config.GetString("mail.from"),
		SMTP: mail.SMTPConfig{
			Host:               a.config.GetString("mail.smtp.host"),
			Port:               a.config.GetInt("mail.smtp.port"),
			Username:           a.config.GetString("mail.smtp.username"),
			Password:           a.config.GetString("mail.smtp.password"),
			FromName:           a.config.GetString("mail.from_name"),
			TLSMode:            a.config.GetString("mail.smtp.tls_mode"),
			InsecureSkipVerify: a.config.GetBool("mail.smtp.insecure_skip_verify"),
			Timeout:            a.config.GetSecond("mail.smtp.timeout_seconds"),
		},
		SpoolOptions: []mail.SpoolOption{mail.WithSpoolClock(a.clock.Now)},
	}

	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("mail.driver")))
	if driver == mail.DriverSpool {
		opts.SpoolStore = a.spoolStore()
	}

	m, err := mail.NewFromDriver(driver, opts)
	if err != nil {
		slog.Error("failed to init mail", "driver", driver, "error", err)
		os.Exit(1)
	}
	a.mail = m
	a.mailDriver = driver

	sp, ok := m.(*mail.Spool)
	if !ok {
		return
	}
	a.spool = sp

	via := strings.ToLower(strings.TrimSpace(a.config.GetString("mail.spool.transport")))
	if via == mail.DriverSpool {
		slog.Error("failed to init mail, spool cannot flush into itself")
		os.Exit(1)
	}

	flush, err := mail.NewFromDriver(via, opts)
	if err != nil {
		// serve keeps spooling; only flushing needs the real transport
		slog.Warn("spool flush transport unavailable", "transport", via, "error", err)
		return
	}
	a.flushTransport = flush
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
			Config: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.MaxInFlight = a.config.GetInt("messaging.consumer.max_in_flight")
				return cfg
			}(),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("app.name")),
				nats.RetryOnFailedConnect(true),
				nats.MaxReconnects(-1),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
			Dialer: &kafka.Dialer{
				ClientID:  a.config.GetString("app.name"),
				Timeout:   10 * time.Second,
				DualStack: true,
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: a.googleOptions("messaging.pubsub", pubsubScope),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initCasbin() {
	const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || keyMatch(r.obj, p.obj)) && (p.act == "*" || r.act == p.act)
`
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		slog.Error("failed to create model casbin", "error", err)
		os.Exit(1)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		slog.Error("failed to init casbin", "error", err)
		os.Exit(1)
	}

	for _, raw := range a.config.GetArray("authz.policies") {
		rule := strings.Split(raw, "|")
		if len(rule) != 3 {
			slog.Error("failed to parse casbin policy, want role|path|method", "policy", raw)
			os.Exit(1)
		}
		if _, err := e.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			slog.Error("failed to add casbin policy", "policy", raw, "error", err)
			os.Exit(1)
		}
	}

	a.casbin = e
}

func (a *App) initHTTPServer() {
	var enforcer router.Enforcer
	if a.casbin != nil {
		enforcer = a.casbin
	}

	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		JWT:             a.jwt,
		Instrument:      a.ins,
		Enforcer:        enforcer,
		PublicEndpoints: inbound.PublicEndpoints(),
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				if a.messaging == nil {
					return nil
				}
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				var errs []error
				if a.flushTransport != nil {
					errs = append(errs, a.flushTransport.Close())
				}
				return errors.Join(append(errs, a.mail.Close())...)
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}

				return nil
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				if a.storage == nil {
					return nil
				}
				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
