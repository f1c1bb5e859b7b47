package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Target is a chat that may receive a study reminder
type Target struct {
	ChatID int64
	Cards  int // cards in the chat's current queue
}

// Notifier interface for sending notifications
type Notifier interface {
	ReminderTargets() []Target
	SendReminder(chatID int64, cards int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	hour      int
}

// New creates a scheduler that sends reminders daily at hour (UTC)
func New(notifier Notifier, hour int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		hour:      hour,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.hour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.checkAndSendReminders); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	log.Printf("Reminder scheduler started, daily at %s UTC", at)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders sends a reminder to every chat with cards queued
func (s *Scheduler) checkAndSendReminders() {
	sent := 0
	for _, target := range s.notifier.ReminderTargets() {
		if target.Cards == 0 {
			continue
		}
		if err := s.notifier.SendReminder(target.ChatID, target.Cards); err != nil {
			log.Printf("Error sending reminder to chat %d: %v", target.ChatID, err)
			continue
		}
		sent++
	}
	log.Printf("Sent %d study reminders", sent)
}

// RunManualCheck sends a reminder to chatID right away. It reports
// false when the chat has no cards queued.
func (s *Scheduler) RunManualCheck(chatID int64) (bool, error) {
	for _, target := range s.notifier.ReminderTargets() {
		if target.ChatID == chatID && target.Cards > 0 {
			return true, s.notifier.SendReminder(chatID, target.Cards)
		}
	}
	return false, nil
}
