// Command seed populates the review tables with demo reviews for local
// development. It writes through the review service, so identifiers come
// from the same counters the server uses. The tables must already exist.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/moviereviews/backend/pkg/database"
	"github.com/moviereviews/backend/pkg/logger"
	"github.com/moviereviews/backend/services/review/internal/config"
	"github.com/moviereviews/backend/services/review/internal/event"
	dynamorepo "github.com/moviereviews/backend/services/review/internal/repository/dynamodb"
	"github.com/moviereviews/backend/services/review/internal/service"
)

var phrases = []string{
	"Great movie, would watch again.",
	"The soundtrack carried the whole second act.",
	"Too long by half an hour, but the ending lands.",
	"Beautifully shot and surprisingly funny.",
	"I expected more from the lead performance.",
	"A quiet film that stays with you for days.",
}

func main() {
	movies := flag.Int("movies", 5, "number of movies to seed")
	perMovie := flag.Int("reviews", 4, "reviews per movie")
	firstMovie := flag.Int64("first-movie-id", 1, "movie id of the first seeded movie")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("review-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log, *firstMovie, *movies, *perMovie); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, firstMovie int64, movies, perMovie int) error {
	ddb, err := database.NewDynamoDBClient(ctx, database.DynamoDBConfig{
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.DynamoDBEndpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return fmt.Errorf("create dynamodb client: %w", err)
	}
	if err := database.PingTables(ctx, ddb, cfg.ReviewsTable, cfg.CountersTable); err != nil {
		return err
	}

	svc := service.NewReviewService(
		dynamorepo.NewReviewRepository(ddb, cfg.ReviewsTable),
		dynamorepo.NewSequenceRepository(ddb, cfg.CountersTable),
		event.NewProducer(nil, log),
		log,
	)

	created := 0
	for m := 0; m < movies; m++ {
		movieID := firstMovie + int64(m)
		for i := 0; i < perMovie; i++ {
			review, err := svc.Create(ctx, &service.CreateReviewInput{
				MovieID:    movieID,
				ReviewerID: fmt.Sprintf("seed-user-%d@example.com", i+1),
				Content:    phrases[rand.Intn(len(phrases))],
			})
			if err != nil {
				log.Warn("review not seeded",
					slog.Int64("movie_id", movieID),
					slog.String("error", err.Error()),
				)
				continue
			}
			created++
			log.Debug("review seeded",
				slog.Int64("movie_id", review.MovieID),
				slog.Int64("review_id", review.ReviewID),
			)
		}
	}

	log.Info("seed complete", slog.Int("reviews", created), slog.Int("movies", movies))
	return nil
}
