package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs. Today that is only the
// OTP eviction sweep, which bounds memory; challenge correctness does
// not depend on it.
type CronService struct {
	cron       *cron.Cron
	otpService *OTPService
}

// NewCronService creates a new cron service
func NewCronService(otpService *OTPService) *CronService {
	return &CronService{
		cron:       cron.New(),
		otpService: otpService,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	s.cron.AddFunc("@every 5m", func() {
		if removed := s.otpService.Sweep(); removed > 0 {
			log.Printf("🧹 OTP sweep evicted %d expired challenges", removed)
		}
	})
	s.cron.Start()
	log.Println("✅ Cron service started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}
