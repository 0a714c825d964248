package service

import (
	"context"
	"log"
	"time"
)

// Sweeper applies due scheduled transitions on a fixed interval
type Sweeper struct {
	transitions *Transitions
	interval    time.Duration
	stopChan    chan bool
}

// NewSweeper creates a sweeper that runs every intervalMinutes
func NewSweeper(t *Transitions, intervalMinutes int) *Sweeper {
	return &Sweeper{
		transitions: t,
		interval:    time.Duration(intervalMinutes) * time.Minute,
		stopChan:    make(chan bool),
	}
}

// Start sweeps once in the background right away, then on every tick
func (s *Sweeper) Start() {
	log.Printf("Starting transition sweeper with %v interval", s.interval)

	ticker := time.NewTicker(s.interval)

	go func() {
		s.runSweep()
		for {
			select {
			case <-ticker.C:
				s.runSweep()
			case <-s.stopChan:
				ticker.Stop()
				log.Println("Transition sweeper stopped")
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (s *Sweeper) Stop() {
	s.stopChan <- true
}

func (s *Sweeper) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := s.transitions.SweepDue(ctx, "sweeper")
	if err != nil {
		log.Printf("Error during transition sweep: %v", err)
		return
	}
	if res.Applied > 0 {
		log.Printf("Transition sweep applied %d scheduled changes", res.Applied)
	}
}
