// Command seed loads a small demo dataset: a few users, three surveys with
// colored options, and one vote per user per survey. Votes are inserted
// directly, outside the admissibility engine, so the data is illustrative
// rather than rule-abiding.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"survey-system/internal/config"
	"survey-system/internal/platform/database"
)

type seedOption struct {
	text  string
	color string
}

type seedSurvey struct {
	ownerIdx    int
	title       string
	description string
	options     []seedOption
	// one vote per seeded user: votes[userIdx] = option index
	votes map[int]int
}

var seedUsers = []struct {
	name  string
	email string
	role  string
}{
	{"Maria M", "maria@example.com", "user"},
	{"Carlos R", "carlos@example.com", "user"},
	{"Alejandro P", "alejandro@example.com", "user"},
	{"Test Admin", "admin@example.com", "admin"},
}

var seedSurveys = []seedSurvey{
	{
		ownerIdx:    0,
		title:       "What is your favorite social network?",
		description: "We want to know which network you use the most",
		options: []seedOption{
			{"Instagram", "#E1306C"},
			{"Twitter/X", "#1DA1F2"},
			{"TikTok", "#000000"},
			{"Facebook", "#1877F2"},
		},
		votes: map[int]int{1: 1, 2: 2, 3: 0},
	},
	{
		ownerIdx:    1,
		title:       "What is your favorite color?",
		description: "A simple survey about color preferences",
		options: []seedOption{
			{"Blue", "#0000ff"},
			{"Red", "#ff0000"},
			{"Green", "#00ff00"},
			{"Yellow", "#ffff00"},
			{"Purple", "#5112ff"},
		},
		votes: map[int]int{0: 4, 2: 2, 3: 4},
	},
	{
		ownerIdx:    2,
		title:       "What is your favorite food?",
		description: "Help us learn your culinary preferences",
		options: []seedOption{
			{"Pizza", "#ff8800"},
			{"Burger", "#8b4513"},
			{"Sushi", "#ff1744"},
			{"Tacos", "#ffeb3b"},
			{"Pasta", "#ffd54f"},
		},
		votes: map[int]int{0: 0, 1: 3, 3: 0},
	},
}

func main() {
	truncate := flag.Bool("truncate", false, "wipe existing rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if *truncate {
		if _, err := db.ExecContext(ctx,
			`TRUNCATE votes, survey_options, surveys, users RESTART IDENTITY CASCADE`); err != nil {
			log.Fatalf("truncate: %v", err)
		}
	}

	if err := seed(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d users and %d surveys", len(seedUsers), len(seedSurveys))
}

func seed(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userIDs := make([]int64, len(seedUsers))
	for i, u := range seedUsers {
		if err := db.QueryRowContext(ctx, `
            INSERT INTO users (name, email, password_hash, role)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, u.name, u.email, string(hash), u.role).Scan(&userIDs[i]); err != nil {
			return err
		}
	}

	for _, s := range seedSurveys {
		var surveyID int64
		if err := db.QueryRowContext(ctx, `
            INSERT INTO surveys (user_id, title, description, is_active)
            VALUES ($1, $2, $3, TRUE)
            RETURNING id
        `, userIDs[s.ownerIdx], s.title, s.description).Scan(&surveyID); err != nil {
			return err
		}

		optionIDs := make([]int64, len(s.options))
		for i, o := range s.options {
			if err := db.QueryRowContext(ctx, `
                INSERT INTO survey_options (survey_id, text, color)
                VALUES ($1, $2, $3)
                RETURNING id
            `, surveyID, o.text, o.color).Scan(&optionIDs[i]); err != nil {
				return err
			}
		}

		for userIdx, optIdx := range s.votes {
			if _, err := db.ExecContext(ctx, `
                INSERT INTO votes (survey_id, option_id, user_id)
                VALUES ($1, $2, $3)
            `, surveyID, optionIDs[optIdx], userIDs[userIdx]); err != nil {
				return err
			}
		}
	}

	return nil
}
