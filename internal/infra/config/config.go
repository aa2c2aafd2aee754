package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string

	// Identidades privilegiadas: exentas de moderación y habilitadas para
	// los comandos protegidos. No puede quedar vacío.
	AdminUserIDs []string
	// Roles que también habilitan los comandos de guild (opcional).
	AdminRoleIDs []string

	// Umbral de advertencias antes del ban (default para la policy).
	MaxWarnings int

	WelcomeChannelID string
	HTTPAddr         string // opcional, default :8080
	GuardAPIKey      string // vacío = endpoint de stats apagado
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}

	cfg := Config{
		DatabaseURL:      get("DATABASE_URL", true),
		DiscordToken:     get("DISCORD_BOT_TOKEN", true),
		DiscordGuild:     get("DISCORD_GUILD_ID", true),
		AdminUserIDs:     splitList(get("ADMIN_USER_IDS", true)),
		AdminRoleIDs:     splitList(get("ADMIN_ROLE_IDS", false)),
		WelcomeChannelID: get("WELCOME_CHANNEL_ID", false),
		HTTPAddr:         get("HTTP_ADDR", false),
		GuardAPIKey:      get("GUARD_API_KEY", false),
	}
	if len(cfg.AdminUserIDs) == 0 {
		log.Fatal("ADMIN_USER_IDS no puede estar vacío")
	}

	cfg.MaxWarnings = 3
	if raw := get("MAX_WARNINGS", false); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Fatalf("MAX_WARNINGS inválido: %q (debe ser entero ≥ 1)", raw)
		}
		cfg.MaxWarnings = n
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
