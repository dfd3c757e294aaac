package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-bot/internal/bot"
	"finance-bot/internal/config"
	"finance-bot/internal/crypto"
	"finance-bot/internal/rates"
	"finance-bot/internal/repository"
	"finance-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	codec, err := crypto.NewCodec(cfg.KeyFile)
	if err != nil {
		log.Fatalf("crypto: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	converterRepo := repository.NewConverterCurrencyRepository(db)

	rateClient := rates.NewClient(cfg.RatesURL)

	converterSvc := service.NewConverterService(rateClient, userRepo, converterRepo)
	ledgerSvc := service.NewLedgerService(txRepo, categoryRepo, codec, converterSvc)
	goalSvc := service.NewGoalService(goalRepo, txRepo, codec)
	reminderSvc := service.NewReminderService(reminderRepo, userRepo)
	exportSvc := service.NewExportService(ledgerSvc)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, ledgerSvc, converterSvc, goalSvc, reminderSvc, exportSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reminderSvc.SweepDue(jobCtx, telegramBot); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("reminder sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Finance bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
