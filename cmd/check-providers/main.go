package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lukemoll/replay/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("sqlite3", cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	fmt.Println("🔍 Checking Provider Configuration")
	fmt.Println("==================================")

	if cfg.AI.APIKey == "" {
		fmt.Println("⚠️  WARNING: OPENAI API key not configured!")
	} else {
		fmt.Printf("✅ OpenAI: Enabled (model %s, %d suggestions per call)\n", cfg.AI.Model, cfg.AI.Suggestions)
	}

	fmt.Printf("🎵 Catalog provider: %s\n", cfg.Catalog.Provider)
	switch cfg.Catalog.Provider {
	case "youtube":
		if cfg.Catalog.YouTubeAPIKey == "" {
			fmt.Println("⚠️  WARNING: YouTube API key not configured!")
		} else {
			fmt.Println("✅ YouTube Data API: Enabled")
		}
	case "spotify":
		if cfg.Catalog.SpotifyClientID == "" || cfg.Catalog.SpotifyClientSecret == "" {
			fmt.Println("⚠️  WARNING: Spotify client credentials not configured!")
		} else {
			fmt.Println("✅ Spotify Web API: Enabled")
		}
	}
	fmt.Println()

	var metricCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM metrics").Scan(&metricCount); err != nil {
		log.Fatal("Failed to count metrics:", err)
	}
	fmt.Printf("📊 Stored metric events: %d\n", metricCount)

	rows, err := db.Query("SELECT event_type, COUNT(*) FROM metrics GROUP BY event_type ORDER BY COUNT(*) DESC")
	if err != nil {
		log.Fatal("Failed to query metrics breakdown:", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			log.Fatal("Failed to scan metrics breakdown:", err)
		}
		fmt.Printf("   - %-26s %d\n", eventType, count)
	}
	if err := rows.Err(); err != nil {
		log.Fatal("Failed reading metrics breakdown:", err)
	}
}
