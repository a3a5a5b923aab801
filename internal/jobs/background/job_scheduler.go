package background

import (
	"context"
	"log"
	"sync"
	"time"

	"caretrack/internal/caching"
	"caretrack/internal/repositories"
	"caretrack/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic maintenance jobs: the nightly payment
// reconciliation audit, the morning follow-up reminder scan and a cache
// warm-up for the finance dashboard.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	bookingRepo    repositories.BookingRepository
	paymentRepo    repositories.PaymentRepository
	followUpRepo   repositories.FollowUpRepository
	financeService services.FinanceService
	cacheSvc       caching.CacheService
	jobs           map[string]gocron.Job
	mu             sync.RWMutex
}

func NewJobScheduler(bookingRepo repositories.BookingRepository, paymentRepo repositories.PaymentRepository,
	followUpRepo repositories.FollowUpRepository, financeService services.FinanceService,
	cacheSvc caching.CacheService) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		bookingRepo:    bookingRepo,
		paymentRepo:    paymentRepo,
		followUpRepo:   followUpRepo,
		financeService: financeService,
		cacheSvc:       cacheSvc,
		jobs:           make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Payment reconciliation audit - nightly
	auditJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.auditBookingPayments, context.Background()),
		gocron.WithName("payment-reconciliation-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reconciliation audit job: %v", err)
	} else {
		js.jobs["reconciliation-audit"] = auditJob
	}

	// Follow-up reminder scan - every morning at 08:00
	reminderJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(js.scanDueFollowUps, context.Background()),
		gocron.WithName("follow-up-reminders"),
	)
	if err != nil {
		log.Printf("Failed to create follow-up reminder job: %v", err)
	} else {
		js.jobs["follow-up-reminders"] = reminderJob
	}

	// Finance totals cache warm-up - every 30 minutes
	warmupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.warmFinanceTotals, context.Background()),
		gocron.WithName("finance-totals-warmup"),
	)
	if err != nil {
		log.Printf("Failed to create finance warm-up job: %v", err)
	} else {
		js.jobs["finance-warmup"] = warmupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// auditBookingPayments recomputes every booking's paid amount from its
// payment rows and repairs any stored value that drifted.
func (js *JobScheduler) auditBookingPayments(ctx context.Context) error {
	log.Printf("Starting payment reconciliation audit")

	drifts, err := services.AuditPayments(ctx, js.bookingRepo, js.paymentRepo)
	if err != nil {
		log.Printf("Payment reconciliation audit failed: %v", err)
		return err
	}
	for _, d := range drifts {
		log.Printf("Repaired payment drift on booking %s: stored %s, computed %s",
			d.BookingID.String(), d.Stored.String(), d.Computed.String())
	}

	log.Printf("Completed payment reconciliation audit, %d bookings repaired", len(drifts))
	return nil
}

// scanDueFollowUps logs the follow-ups that come due today so operators
// see them in the morning report.
func (js *JobScheduler) scanDueFollowUps(ctx context.Context) error {
	due, err := js.followUpRepo.ListDueOn(ctx, time.Now())
	if err != nil {
		log.Printf("Failed to scan due follow-ups: %v", err)
		return err
	}
	log.Printf("%d follow-ups due today", len(due))
	return nil
}

// warmFinanceTotals refreshes the cached dashboard totals for the current
// month so the first request after invalidation does not pay the query cost.
func (js *JobScheduler) warmFinanceTotals(ctx context.Context) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if _, err := js.financeService.Totals(ctx, from, to); err != nil {
		log.Printf("Failed to warm finance totals cache: %v", err)
		return err
	}
	return nil
}
