package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"clubhouse/internal/adapters/blob"
	emailPkg "clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/gateway"
	"clubhouse/internal/adapters/gateway/rest"
	"clubhouse/internal/adapters/gateway/sqlitegw"
	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/adapters/textgen"
	"clubhouse/internal/application/syncstore"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx := context.Background()
	collector := perf.NewCollector(perf.DefaultRingSize)

	// Gateway selection: a remote REST store when configured, an embedded
	// SQLite file as the self-hosted alternative, and none at all for a
	// pure seed-data run.
	var gw gateway.Client
	switch {
	case os.Getenv("CLUBHOUSE_REMOTE_URL") != "":
		gw = rest.New(os.Getenv("CLUBHOUSE_REMOTE_URL"), os.Getenv("CLUBHOUSE_REMOTE_KEY"))
		log.Println("Gateway configured (remote REST)")
	case os.Getenv("CLUBHOUSE_DB") != "":
		dbPath := os.Getenv("CLUBHOUSE_DB")
		dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		if err := sqlitegw.InitDB(db); err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		gw = sqlitegw.New(db)
		log.Printf("Gateway configured (sqlite at %s)", dbPath)
	default:
		log.Println("No gateway configured; running on seed data only")
	}
	if gw != nil {
		gw = gateway.WithTiming(gw, collector)
	}

	// Blob storage: S3-compatible when credentials are present, local disk
	// otherwise.
	var blobStore blob.Store
	if os.Getenv("CLUBHOUSE_S3_BUCKET") != "" {
		s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:        os.Getenv("CLUBHOUSE_S3_BUCKET"),
			Endpoint:      os.Getenv("CLUBHOUSE_S3_ENDPOINT"),
			Region:        os.Getenv("CLUBHOUSE_S3_REGION"),
			AccessKey:     os.Getenv("CLUBHOUSE_S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("CLUBHOUSE_S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("CLUBHOUSE_S3_PUBLIC_URL"),
		})
		if err != nil {
			log.Fatalf("failed to configure S3 blob store: %v", err)
		}
		blobStore = s3Store
		log.Println("Blob storage configured (S3)")
	} else {
		uploadDir := envOrDefault("CLUBHOUSE_UPLOAD_DIR", "uploads")
		uploadBase := envOrDefault("CLUBHOUSE_UPLOAD_BASE_URL", "/uploads")
		blobStore = blob.NewLocalStore(uploadDir, uploadBase)
		log.Printf("Blob storage configured (local at %s)", uploadDir)
	}

	store := syncstore.New(gw, syncstore.WithBlobStore(blobStore))
	status := store.Load(ctx)
	log.Printf("Store loaded (status=%s)", status)

	// Text generation for congratulation messages; static fallback when no
	// provider key is set.
	var generator textgen.Generator = textgen.NewStaticGenerator()
	if key := os.Getenv("CLUBHOUSE_TEXTGEN_KEY"); key != "" {
		generator = textgen.NewChatClient(
			envOrDefault("CLUBHOUSE_TEXTGEN_URL", "https://api.openai.com"),
			key,
			envOrDefault("CLUBHOUSE_TEXTGEN_MODEL", "gpt-4o-mini"),
		)
		log.Println("Text generation configured (chat provider)")
	}

	// Email sender for event registration confirmations.
	emailFrom := envOrDefault("CLUBHOUSE_RESEND_FROM", "Clubhouse <noreply@clubhouse.example>")
	emailReply := envOrDefault("CLUBHOUSE_REPLY_TO", "")
	var sender emailPkg.Sender = emailPkg.NewNoopSender()
	if resendKey := os.Getenv("CLUBHOUSE_RESEND_KEY"); resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		log.Println("Email sender configured (noop; set CLUBHOUSE_RESEND_KEY for real delivery)")
	}

	mux := web.NewMux(web.Deps{
		Store:        store,
		TextGen:      generator,
		Email:        sender,
		EmailFrom:    emailFrom,
		EmailReplyTo: emailReply,
		Perf:         collector,
	})

	addr := envOrDefault("CLUBHOUSE_ADDR", ":8080")
	log.Printf("Clubhouse %s starting on %s (env=%s)", version, addr, envOrDefault("CLUBHOUSE_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
