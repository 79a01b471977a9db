package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "DB_PATH", "REDIS_ADDR", "KAFKA_BROKERS", "SENTRY_DSN"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

func containsErr(err error, want string) bool {
	return err != nil && strings.Contains(err.Error(), want)
}

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_DefaultsAreValid(t *testing.T) {
	cfg := MustLoad()
	if cfg.APIBasePath != "/api" {
		t.Fatalf("API_BASE_PATH default = %q, want /api", cfg.APIBasePath)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.DBPath != "appointments.db" || cfg.Store.StrictUniqueness {
		t.Fatalf("store defaults unexpected: %+v", cfg.Store)
	}
	if cfg.Redis.Enabled() || cfg.Kafka.Enabled() || cfg.Sentry.DSN != "" {
		t.Fatalf("optional backends should be off by default: %+v %+v %+v", cfg.Redis, cfg.Kafka, cfg.Sentry)
	}
	if cfg.Kafka.Topic != "appointments" || cfg.Redis.CacheTTL != 30*time.Second {
		t.Fatalf("backend defaults unexpected: topic=%q ttl=%v", cfg.Kafka.Topic, cfg.Redis.CacheTTL)
	}
	if cfg.OTEL.ServiceName != "go-booking-backend" {
		t.Fatalf("service name default = %q", cfg.OTEL.ServiceName)
	}
	if !cfg.LogRedact {
		t.Fatalf("log redaction should be on by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	env := map[string]string{
		"PORT":                        "8088",
		"READ_TIMEOUT":                "2s",
		"READ_HEADER_TIMEOUT":         "1s",
		"WRITE_TIMEOUT":               "3s",
		"IDLE_TIMEOUT":                "4s",
		"MAX_HEADER_BYTES":            "8192",
		"GIN_MODE":                    "weird",
		"LOG_LEVEL":                   "warning",
		"LOG_PRETTY":                  "yes",
		"LOG_REDACT":                  "off",
		"SWAGGER_ENABLED":             "on",
		"API_BASE_PATH":               "api/v2/",
		"STORE_DRIVER":                "MONGO",
		"MONGO_URI":                   "mongodb://db:27017",
		"MONGO_DATABASE":              "clinic",
		"STRICT_UNIQUENESS":           "true",
		"REDIS_ADDR":                  "redis:6379",
		"REDIS_PASSWORD":              "pw",
		"REDIS_DB":                    "2",
		"CACHE_TTL":                   "1m",
		"KAFKA_BROKERS":               " k1:9092, ,k2:9092 ",
		"KAFKA_TOPIC":                 "bookings",
		"SENTRY_DSN":                  "https://key@sentry.example/1",
		"APP_ENV":                     "staging",
		"SENTRY_TRACES_SAMPLE_RATE":   "0.5",
		"RATE_RPS":                    "x",
		"RATE_BURST":                  "nope",
		"CORS_ALLOWED_ORIGINS":        " https://a.com , , http://b ",
		"ENABLE_HSTS":                 "TRUE",
		"HSTS_MAX_AGE":                "24h",
		"IDEMPOTENCY_TTL":             "48h",
		"OTEL_ENABLED":                "1",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "otel:4317",
		"OTEL_EXPORTER_OTLP_INSECURE": "0",
		"OTEL_SERVICE_NAME":           "svc",
		"OTEL_TRACES_SAMPLER_ARG":     "0.75",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second || cfg.ReadHeaderTimeout != time.Second ||
		cfg.WriteTimeout != 3*time.Second || cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 || cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.LogRedact || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v2" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	wantStore := StoreConfig{Driver: DriverMongo, DBPath: "appointments.db", MongoURI: "mongodb://db:27017", MongoDatabase: "clinic", StrictUniqueness: true}
	if cfg.Store != wantStore {
		t.Fatalf("store = %+v, want %+v", cfg.Store, wantStore)
	}
	wantRedis := RedisConfig{Addr: "redis:6379", Password: "pw", DB: 2, CacheTTL: time.Minute}
	if cfg.Redis != wantRedis || !cfg.Redis.Enabled() {
		t.Fatalf("redis = %+v", cfg.Redis)
	}
	if !reflect.DeepEqual(cfg.Kafka.Brokers, []string{"k1:9092", "k2:9092"}) || cfg.Kafka.Topic != "bookings" || !cfg.Kafka.Enabled() {
		t.Fatalf("kafka = %+v", cfg.Kafka)
	}
	if cfg.Sentry.DSN == "" || cfg.Sentry.Environment != "staging" || cfg.Sentry.TracesSampleRate != 0.5 {
		t.Fatalf("sentry = %+v", cfg.Sentry)
	}

	// parse failures fall back to defaults
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"blank port", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"driver", map[string]string{"STORE_DRIVER": "postgres"}, "STORE_DRIVER"},
		{"sqlite path", map[string]string{"DB_PATH": "   "}, "DB_PATH must not be empty"},
		{"mongo db", map[string]string{"STORE_DRIVER": "mongo", "MONGO_DATABASE": " "}, "MONGO_DATABASE"},
		{"redis db", map[string]string{"REDIS_DB": "-1"}, "REDIS_DB"},
		{"cache ttl", map[string]string{"REDIS_ADDR": "r:6379", "CACHE_TTL": "-5s"}, "CACHE_TTL"},
		{"kafka topic", map[string]string{"KAFKA_BROKERS": "k:9092", "KAFKA_TOPIC": " "}, "KAFKA_TOPIC"},
		{"sentry rate", map[string]string{"SENTRY_TRACES_SAMPLE_RATE": "2"}, "SENTRY_TRACES_SAMPLE_RATE"},
		{"rate rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"idempotency", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"otel ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !containsErr(err, tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	t.Setenv("F_BAD", "nope")
	if getfloat("F_VALID", 0) != 3.14 || getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat unexpected")
	}

	t.Setenv("I_VALID", "42")
	t.Setenv("I_BAD", "x")
	if getint("I_VALID", 0) != 42 || getint("I_BAD", 7) != 7 {
		t.Fatalf("getint unexpected")
	}

	t.Setenv("D_VALID", "150ms")
	t.Setenv("D_BAD", "zzz")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond || getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur unexpected")
	}
}

func TestHelpers_getbool(t *testing.T) {
	cases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"TRUE", false, true},
		{" yes ", false, true},
		{"on", false, true},
		{"0", true, false},
		{"False", true, false},
		{" no ", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("B_VAL", tc.in)
		if got := getbool("B_VAL", tc.def); got != tc.want {
			t.Fatalf("getbool(%q, %v) = %v; want %v", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("splitCSV mismatch: %#v", got)
	}

	paths := []struct{ in, want string }{
		{"", "/"},
		{" / ", "/"},
		{"api", "/api"},
		{"/api/", "/api"},
	}
	for _, p := range paths {
		if got := normalizeBasePath(p.in); got != p.want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", p.in, got, p.want)
		}
	}
}
