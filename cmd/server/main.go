package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/scholarhub/portal/auth"
	"github.com/scholarhub/portal/chatbot"
	"github.com/scholarhub/portal/googleauth"
	"github.com/scholarhub/portal/internal/config"
	"github.com/scholarhub/portal/notify"
	"github.com/scholarhub/portal/scholarships"
	"github.com/scholarhub/portal/server"
	"github.com/scholarhub/portal/sessions"
	"github.com/scholarhub/portal/storage/redisstore"
	"github.com/scholarhub/portal/storage/sqlitestore"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx := context.Background()

	store, err := sqlitestore.Open(ctx, c.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("sqlitestore.Open: %w", err)
	}
	defer store.Close()

	handler, err := buildServer(ctx, c, store)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(ctx context.Context, c config.Config, store *sqlitestore.Store) (*server.Server, error) {
	var challengeRepo auth.ChallengeRepo
	var sessionRepo sessions.Repo

	// Redis when configured, in-process fallback otherwise
	if addr := c.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		challengeRepo = redisstore.NewChallengeRepo(client)
		sessionRepo = redisstore.NewSessionRepo(client)
	} else {
		challengeRepo = auth.NewInMemoryChallengeRepo()
		sessionRepo = sessions.NewInMemoryRepo()
	}

	notifier := notify.NewSMTPNotifier(
		c.GetSmtpHost(), c.GetSmtpPort(),
		c.GetSmtpAccount(), c.GetSmtpPassword(), c.GetSmtpSender(),
		c.GetExternalCallTimeout(),
	)

	engine, err := auth.NewChallengeEngine(challengeRepo, notifier)
	if err != nil {
		return nil, fmt.Errorf("auth.NewChallengeEngine: %w", err)
	}

	sessionMgr, err := sessions.NewManager(sessionRepo, sessions.WithLifetime(c.GetSessionLifetime()))
	if err != nil {
		return nil, fmt.Errorf("sessions.NewManager: %w", err)
	}

	authService, err := auth.NewService(auth.Repos{
		Users:      store.Users(),
		Challenges: challengeRepo,
	}, engine, sessionMgr)
	if err != nil {
		return nil, fmt.Errorf("auth.NewService: %w", err)
	}

	federator, err := googleauth.New(googleauth.Config{
		ClientID:     c.GetGoogleClientID(),
		ClientSecret: c.GetGoogleClientSecret(),
		RedirectURL:  c.GetBaseURL() + server.RouteGoogleCallback,
		Timeout:      c.GetExternalCallTimeout(),
	}, store.Users(), sessionMgr)
	if err != nil {
		return nil, fmt.Errorf("googleauth.New: %w", err)
	}

	chatClient := chatbot.NewGeminiClient(c.GetGeminiAPIKey(), c.GetExternalCallTimeout(),
		chatbot.WithModel(c.GetGeminiModel()))

	scholarshipRepo := store.Scholarships()
	if err := seedScholarships(ctx, scholarshipRepo); err != nil {
		return nil, fmt.Errorf("seedScholarships: %w", err)
	}

	return server.New(c, authService, federator, scholarshipRepo, chatClient)
}

// seedScholarships loads a starter catalogue on an empty database.
func seedScholarships(ctx context.Context, repo scholarships.Repo) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	seed := []*scholarships.Scholarship{
		{
			Title:       "STEM Excellence Scholarship",
			Description: "For undergraduates pursuing science, technology, engineering, or mathematics degrees.",
			Amount:      "$5,000",
			Deadline:    now.AddDate(0, 3, 0),
			CreatedAt:   now,
		},
		{
			Title:       "First Generation Scholars Award",
			Description: "Supports students who are the first in their family to attend university.",
			Amount:      "$3,000",
			Deadline:    now.AddDate(0, 2, 0),
			CreatedAt:   now,
		},
		{
			Title:       "Community Leadership Grant",
			Description: "Recognises sustained volunteer work and community organising.",
			Amount:      "$2,500",
			Deadline:    now.AddDate(0, 4, 0),
			CreatedAt:   now,
		},
	}
	for _, s := range seed {
		if err := repo.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
