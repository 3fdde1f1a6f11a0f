// Maintenance commands for the quiz backend.
//
// Usage:
//
//	go run ./scripts -hash-password <password>
//	go run ./scripts -seed questions.yaml [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/internal/seed"
	"math_quiz_backend/pkg/database"
	"math_quiz_backend/pkg/logger"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for admin.password_hash")
	seedFile := flag.String("seed", "", "YAML question file to import")
	dryRun := flag.Bool("dry-run", false, "with -seed, validate and summarise without writing")
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	flag.Parse()

	switch {
	case *hashPassword != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(*hashPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(string(hash))
	case *seedFile != "":
		if err := runSeed(*configDir, *seedFile, *dryRun); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runSeed(configDir, path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	questions, err := seed.Load(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	summaries, err := seed.Summarize(ctx, questions)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Printf("%-14s %4d questions, %3d chapters (Easy %d, Medium %d, Hard %d)\n",
			s.Module, s.Questions, s.Chapters,
			s.Difficulty[model.Easy], s.Difficulty[model.Medium], s.Difficulty[model.Hard])
	}
	if dryRun {
		return nil
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}
	logger.InitLogger(cfg)
	defer logger.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	if err := seed.Import(ctx, repository.NewQuestionRepository(db), questions); err != nil {
		return err
	}
	logger.Log.Info("Questions imported", zap.String("file", path), zap.Int("count", len(questions)))
	return nil
}
