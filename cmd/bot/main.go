package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/xcg-guard-bot/internal/adapters/discord"
	"github.com/jose-valero/xcg-guard-bot/internal/adapters/httpadmin"
	"github.com/jose-valero/xcg-guard-bot/internal/app/service"
	"github.com/jose-valero/xcg-guard-bot/internal/infra/config"
	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	membersRepo := storage.NewMemberRepo(db)
	wordsRepo := storage.NewWordRepo(db)
	policyRepo := storage.NewPolicyRepo(db, cfg.MaxWarnings)
	eventsRepo := storage.NewEventRepo(db)

	admins, err := service.ParseAdminIDs(cfg.AdminUserIDs)
	if err != nil {
		log.Fatal("ADMIN_USER_IDS:", err)
	}

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	// Cache de palabras: cargado ANTES de mirar el primer mensaje.
	cache := service.NewWordCache(wordsRepo)
	n, err := cache.Reload(context.Background())
	if err != nil {
		log.Fatal("cargando palabras prohibidas:", err)
	}
	log.Printf("✅ palabras prohibidas en cache: %d", n)

	// Policy cacheada en memoria
	policySvc := service.NewPolicyService(policyRepo, cfg.DiscordGuild, cfg.MaxWarnings)
	if err := policySvc.Refresh(context.Background()); err != nil {
		log.Fatal("cargando policy:", err)
	}

	// Services
	actions := discordrouter.NewActions(s)
	detector := service.NewDetector(cache)
	moderationSvc := service.NewModerationService(membersRepo, actions, detector, policySvc, admins)
	activitySvc := service.NewActivityService(membersRepo)
	adminSvc := service.NewAdminService(wordsRepo, membersRepo, cache, admins)
	eventSvc := service.NewEventService(eventsRepo)

	// Router
	r := discordrouter.NewRouter(
		s,
		cfg.DiscordGuild,
		cfg.WelcomeChannelID,
		moderationSvc,
		activitySvc,
		adminSvc,
		policySvc,
		eventSvc,
		cfg.AdminUserIDs,
		cfg.AdminRoleIDs,
	)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Endpoint de operación
	web := httpadmin.New(cfg.GuardAPIKey, db, membersRepo, cache)
	go web.Start(cfg.HTTPAddr)

	// Refresco periódico de la policy (por si la tocan por SQL u otra
	// instancia; /policy set la refresca al instante)
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for range t.C {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := policySvc.Refresh(ctx); err != nil {
				log.Printf("policy refresh: %v", err)
			}
			cancel()
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
