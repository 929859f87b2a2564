// Command recheck polls the extraction vendor once more for every timed out
// resume and completes the ones that have finished since.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/fadilmartias/hr-onboarding/internal/config"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/repository"
	"github.com/fadilmartias/hr-onboarding/internal/retry"
	"github.com/fadilmartias/hr-onboarding/internal/service"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	limit := flag.Int("limit", 100, "maximum number of jobs to re-check")
	workers := flag.Int("workers", 4, "concurrent vendor requests")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig := config.LoadAppConfig()
	extractionConfig := config.LoadExtractionConfig()
	db, err := repository.Connect(config.LoadDBConfig(), appConfig.IsProduction())
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer repository.Close(db)

	jobRepo := repository.NewExtractionJobRepository(db)
	postings := repository.NewJobPostingRepository(db)
	onboarding := usecase.NewOnboardingUsecase(repository.NewUserRepository(db), postings, repository.NewOnboardingRepository(db))
	ingestion := usecase.NewIngestionUsecase(
		service.NewExtractionService(extractionConfig),
		jobRepo,
		repository.NewDocumentRepository(db),
		repository.NewApplicationRepository(db),
		postings,
		repository.NewGateway(db, onboarding, extractionConfig.RawPayloadWarnBytes),
		retry.Policy{MaxAttempts: 1},
		usecase.UploadLimits{},
	)

	jobs, err := jobRepo.ListByPhase(ctx, model.PhaseTimedOut, *limit)
	if err != nil {
		log.Fatalf("Could not list timed out jobs: %v", err)
	}
	log.Printf("Re-checking %d timed out extraction jobs", len(jobs))

	var completed, failed, pending atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for _, job := range jobs {
		g.Go(func() error {
			res, err := ingestion.Recheck(gctx, job.ID)
			if err != nil {
				// One vendor hiccup should not stop the batch.
				log.Printf("job=%s: %v", job.ID, err)
				failed.Add(1)
				return nil
			}
			switch model.ExtractionPhase(res.Phase) {
			case model.PhaseCompleted:
				completed.Add(1)
			case model.PhaseFailed:
				failed.Add(1)
			default:
				pending.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("Done: completed=%d failed=%d still_pending=%d", completed.Load(), failed.Load(), pending.Load())
}
