package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/predictor.db"

	// Durable entitlement ledger (JSON snapshot file).
	SubscribersPath string

	// Draw history CSV.
	HistoryPath  string
	HistoryLimit int // how many draws the analyzer consumes

	// Principals allowed to grant/revoke/broadcast.
	AdminIDs []int64

	SubscriptionHours int // entitlement window, default 24
	CooldownSeconds   int // random-card cooldown, default 5
}

func FromEnv() Config {
	addr := getenvDefault("PREDICTOR_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("PREDICTOR_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("PREDICTOR_DB_PATH", "./data/predictor.db")
	subsPath := getenvDefault("PREDICTOR_SUBSCRIBERS_PATH", "./data/subscribers.json")
	historyPath := getenvDefault("PREDICTOR_HISTORY_PATH", "./data/chance.csv")

	adminIDs := splitIDs(os.Getenv("PREDICTOR_ADMIN_IDS"))

	subHours := getenvInt("PREDICTOR_SUB_DURATION_HOURS", 24)
	if subHours == 0 {
		subHours = 24
	}
	cooldown := getenvInt("PREDICTOR_COOLDOWN_SECONDS", 5)
	historyLimit := getenvInt("PREDICTOR_HISTORY_LIMIT", 200)
	if historyLimit == 0 {
		historyLimit = 200
	}

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		SubscribersPath: subsPath,
		HistoryPath:     historyPath,
		HistoryLimit:    historyLimit,

		AdminIDs: adminIDs,

		SubscriptionHours: subHours,
		CooldownSeconds:   cooldown,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// splitIDs parses a comma-separated list of principal identifiers.
// Entries that do not parse as integers are dropped.
func splitIDs(v string) []int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
