package main

import (
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"todo-service/auth"
	"todo-service/server"
	"todo-service/store"
)

func main() {
	// .env is optional; configuration may come straight from the
	// environment.
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := LoadConfig()
	if cfg.Issuer == "" || cfg.Audience == "" {
		log.Fatal().Msg("ISSUER_URL and AUDIENCE_URL must be set")
	}
	if cfg.StoreURL == "" {
		log.Fatal().Msg("STORE_URL must be set")
	}

	st, err := store.NewElastic(store.Config{
		URL:         cfg.StoreURL,
		App:         cfg.StoreApp,
		Credentials: cfg.StoreCredentials,
		DocType:     cfg.StoreDocType,
		Timeout:     cfg.OutboundTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store client")
	}

	checkJWT, err := auth.NewMiddleware(auth.Config{
		IssuerURL:        cfg.Issuer,
		Audience:         cfg.Audience,
		JWKSURL:          cfg.JWKSURL,
		Algorithm:        cfg.Algorithm,
		KeyCacheTTL:      cfg.KeyCacheTTL,
		KeyFetchesPerMin: cfg.KeyFetchesPerMin,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token verifier")
	}

	identity := auth.NewUserInfo(cfg.UserInfoURL, cfg.OutboundTimeout)
	srv := server.New(st, identity, log)

	router := mux.NewRouter()
	router.HandleFunc("/", srv.CreateTodo).Methods("POST")
	router.HandleFunc("/", srv.UpdateTodo).Methods("PUT")
	router.HandleFunc("/", srv.DeleteTodo).Methods("DELETE")

	// Token gate first, then the scope gate; handlers run only once
	// both pass.
	router.Use(checkJWT.CheckJWT)
	router.Use(auth.RequireScope(cfg.WriteScope, log))

	handler := cors.New(cors.Options{
		AllowedMethods: []string{"POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	handler = handlers.RecoveryHandler()(handler)

	if err := server.Start("0.0.0.0:"+cfg.Port, handler, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
