package config

// Defaults returns the built-in value of every key the service reads.
// Files and environment variables override them.
func Defaults() map[string]any {
	return map[string]any{
		"app.name":                             "resetmail",
		"app.tz":                               "UTC",
		"app.admin_url":                        "http://localhost:8080/admin",
		"app.server.max_goroutine":             100,
		"app.server.cors":                      "",
		"app.server.http.address":              ":8080",
		"app.server.http.read_timeout_seconds": 10,
		"app.server.http.read_header_timeout_seconds": 5,
		"app.server.http.write_timeout_seconds":       15,
		"app.server.http.idle_timeout_seconds":        60,
		"app.maintenance.endpoints":                   "",

		"instrument.enabled":                 false,
		"instrument.service_name":            "resetmail",
		"instrument.service_version":         "dev",
		"instrument.env":                     "local",
		"instrument.otlp_endpoint":           "localhost:4317",
		"instrument.otlp_secure":             false,
		"instrument.trace_sample_ratio":      1.0,
		"instrument.metric_interval_seconds": 15,
		"instrument.log_level":               "info",
		"instrument.log_mask_fields":         "password,new_password,token,authorization",

		"translation.fallback_locales": "",
		"translation.dir":              "",

		"mail.driver":                    "spool",
		"mail.from":                      "no-reply@example.com",
		"mail.from_name":                 "Administration",
		"mail.smtp.host":                 "",
		"mail.smtp.port":                 587,
		"mail.smtp.username":             "",
		"mail.smtp.password":             "",
		"mail.smtp.tls_mode":             "auto",
		"mail.smtp.timeout_seconds":      10,
		"mail.smtp.insecure_skip_verify": false,

		"mail.spool.store":                   "file",
		"mail.spool.dir":                     "./var/spool",
		"mail.spool.prefix":                  "spool/",
		"mail.spool.transport":               "smtp",
		"mail.spool.flush_interval_seconds":  0,
		"mail.spool.message_limit":           0,
		"mail.spool.time_limit_seconds":      0,
		"mail.spool.recover_timeout_seconds": 900,

		"storage.driver":               "",
		"storage.s3.bucket":            "",
		"storage.s3.region":            "us-east-1",
		"storage.s3.endpoint":          "",
		"storage.s3.access_key":        "",
		"storage.s3.secret_key":        "",
		"storage.s3.use_path_style":    false,
		"storage.gcs.bucket":           "",
		"storage.gcs.credentials_json": "",
		"storage.gcs.endpoint":         "",
		"storage.minio.bucket":         "",
		"storage.minio.endpoint":       "localhost:9000",
		"storage.minio.access_key":     "",
		"storage.minio.secret_key":     "",
		"storage.minio.region":         "",
		"storage.minio.use_ssl":        false,

		"messaging.driver":                     "memory",
		"messaging.nsq.producer_addr":          "localhost:4150",
		"messaging.nsq.consumer_nsqd_addrs":    "",
		"messaging.nsq.consumer_lookupd_addrs": "localhost:4161",
		"messaging.nats.url":                   "nats://localhost:4222",
		"messaging.kafka.brokers":              "localhost:9092",
		"messaging.pubsub.project_id":          "",
		"messaging.pubsub.credentials_json":    "",
		"messaging.pubsub.endpoint":            "",
		"messaging.consumer.concurrency":       4,
		"messaging.consumer.max_in_flight":     16,

		"database.url":                              "",
		"database.auto_migrate":                     false,
		"database.pool.max_conns":                   10,
		"database.pool.min_conns":                   1,
		"database.pool.max_conn_lifetime_seconds":   3600,
		"database.pool.max_conn_idle_seconds":       300,
		"database.pool.health_check_period_seconds": 30,

		"redis.url": "",

		"hash.hmac.secret":   "change-me",
		"hash.bcrypt.cost":   10,
		"hash.bcrypt.pepper": "",

		"jwt.secret":      "",
		"jwt.issuer":      "resetmail",
		"jwt.audiences":   "resetmail-ops",
		"jwt.ttl_minutes": 60,

		"authz.policies": "operator|/api/v1/notification/*|*",

		"modules.identity.enabled":                    false,
		"modules.identity.notify_mode":                "sync",
		"modules.identity.password_reset_ttl_minutes": 60,

		"modules.notification.enabled":                 true,
		"modules.notification.consumer_names":          "admin_password_reset_requested_notification",
		"modules.notification.default_locale":          "en_US",
		"modules.notification.reset_path":              "/forgotten-password/",
		"modules.notification.idempotency_ttl_minutes": 1440,
	}
}
