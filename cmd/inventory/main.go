package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"model_inventory/inventory/auth"
	"model_inventory/inventory/services"
	"model_inventory/inventory/store"
	"model_inventory/utils"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

type inventoryEnv struct {
	DbUser string
	DbPass string
	DbHost string
	DbName string

	IdentityProvider string

	JwtSecret string

	KeycloakServerUrl string
	KeycloakRealm     string

	IdentityProjectID   string
	IdentityClientEmail string
	IdentityPrivateKey  string

	CorsOrigin string
	ShareDir   string
}

func loadEnvFile(envFile string) {
	slog.Info(fmt.Sprintf("loading env from file %v", envFile))
	err := godotenv.Load(envFile)
	if err != nil {
		log.Fatalf("error loading .env file '%v': %v", envFile, err)
	}
}

/**
 * ==========================================================================
 * ==== All variables used by the inventory server must be loaded here.  ====
 * ==== This is to make the data flow clear so that a user can see what  ====
 * ==== variables are exposed, and how the values are propagated through ====
 * ==== the system.                                                      ====
 * ==========================================================================
 */
func loadEnv() inventoryEnv {
	missingEnvs := []string{}

	requiredEnv := func(key string) string {
		env := os.Getenv(key)
		if env == "" {
			missingEnvs = append(missingEnvs, key)
			slog.Error("missing required env variable", "key", key)
		}
		return env
	}

	env := inventoryEnv{
		DbUser: requiredEnv("DB_USER"),
		DbPass: requiredEnv("DB_PASS"),
		DbHost: requiredEnv("DB_HOST"),
		DbName: utils.OptionalEnv("DB_NAME"),

		IdentityProvider: requiredEnv("IDENTITY_PROVIDER"),

		JwtSecret: utils.OptionalEnv("JWT_SECRET"),

		KeycloakServerUrl: utils.OptionalEnv("KEYCLOAK_SERVER_URL"),
		KeycloakRealm:     utils.OptionalEnv("KEYCLOAK_REALM"),

		IdentityProjectID:   utils.OptionalEnv("IDENTITY_PROJECT_ID"),
		IdentityClientEmail: utils.OptionalEnv("IDENTITY_CLIENT_EMAIL"),
		IdentityPrivateKey:  utils.OptionalEnv("IDENTITY_PRIVATE_KEY"),

		CorsOrigin: utils.OptionalEnv("CORS_ORIGIN"),
		ShareDir:   utils.OptionalEnv("SHARE_DIR"),
	}

	if env.DbName == "" {
		env.DbName = "ai-models-db"
	}

	if len(missingEnvs) > 0 {
		log.Fatalf("The following required env vars are missing: %s", strings.Join(missingEnvs, ", "))
	}

	switch env.IdentityProvider {
	case "keycloak":
		if env.KeycloakServerUrl == "" || env.KeycloakRealm == "" {
			log.Fatal("KEYCLOAK_SERVER_URL and KEYCLOAK_REALM must be specified when IDENTITY_PROVIDER is 'keycloak'")
		}
	case "service-account":
		if env.IdentityProjectID == "" || env.IdentityClientEmail == "" || env.IdentityPrivateKey == "" {
			log.Fatal("IDENTITY_PROJECT_ID, IDENTITY_CLIENT_EMAIL, and IDENTITY_PRIVATE_KEY must be specified when IDENTITY_PROVIDER is 'service-account'")
		}
	case "local":
		if env.JwtSecret == "" {
			log.Fatal("JWT_SECRET must be specified when IDENTITY_PROVIDER is 'local'")
		}
	default:
		log.Fatalf("invalid IDENTITY_PROVIDER '%v', must be one of 'keycloak', 'service-account', or 'local'", env.IdentityProvider)
	}

	return env
}

func (env *inventoryEnv) mongoUri() string {
	return fmt.Sprintf(
		"mongodb+srv://%v:%v@%v/?retryWrites=true&w=majority",
		url.QueryEscape(env.DbUser), url.QueryEscape(env.DbPass), env.DbHost,
	)
}

func (env *inventoryEnv) verifier() auth.Verifier {
	switch env.IdentityProvider {
	case "keycloak":
		return auth.NewKeycloakVerifier(env.KeycloakServerUrl, env.KeycloakRealm)
	case "service-account":
		verifier, err := auth.NewServiceAccountVerifier(auth.ServiceAccountConfig{
			ProjectID:   env.IdentityProjectID,
			ClientEmail: env.IdentityClientEmail,
			PrivateKey:  env.IdentityPrivateKey,
		})
		if err != nil {
			log.Fatalf("error creating service account verifier: %v", err)
		}
		return verifier
	default:
		return auth.NewJwtVerifier([]byte(env.JwtSecret))
	}
}

func initLogging(logFile *os.File) {
	log.SetFlags(log.Lshortfile | log.Ltime | log.Ldate)
	log.SetOutput(io.MultiWriter(logFile, os.Stderr))
	slog.Info("logging initialized", "log_file", logFile.Name())
}

func main() {
	envFile := flag.String("env", "", "File to load env variables from. If not specified will just load them from the environment variables already defined.")
	port := flag.Int("port", utils.IntEnvVar("PORT", 3000), "Port to run server on")

	flag.Parse()

	if *envFile != "" {
		loadEnvFile(*envFile)
	}
	env := loadEnv()

	auditStream := io.Writer(os.Stderr)

	if env.ShareDir != "" {
		err := os.MkdirAll(filepath.Join(env.ShareDir, "logs/"), 0777)
		if err != nil {
			log.Fatalf("error creating log dir: %v", err)
		}

		logFile, err := os.OpenFile(filepath.Join(env.ShareDir, "logs/inventory.log"), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer logFile.Close()

		auditLogFile, err := os.OpenFile(filepath.Join(env.ShareDir, "logs/audit.log"), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			log.Fatalf("error opening audit log file: %v", err)
		}
		defer auditLogFile.Close()

		initLogging(logFile)
		auditStream = auditLogFile
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.Connect(connectCtx, env.mongoUri(), env.DbName)
	if err != nil {
		log.Fatalf("error connecting to document store: %v", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			slog.Error("error closing document store connection", "error", err)
		}
	}()
	slog.Info("connected to document store", "db", env.DbName)

	inventory := services.NewInventory(
		db.Listings(), db.Purchases(), env.verifier(), auth.NewAuditLogger(auditStream),
	)

	corsOrigin := env.CorsOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Mount("/", inventory.Routes())

	slog.Info("starting server", "port", *port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", *port), r)
	if err != nil {
		log.Fatalf("listen and serve returned error: %v", err.Error())
	}
}
