package services

import (
	"context"
	"sync"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
)

// DashboardMonitor polls today's statistics and broadcasts them whenever
// they change, so dashboards stay current even when rows are edited
// outside the API.
type DashboardMonitor struct {
	Reservations *ReservationService
	Notifier     *Notifier
	Interval     time.Duration
	Location     *time.Location
	Now          func() time.Time

	StopChan chan struct{}
	stopOnce sync.Once
	last     *DashboardStats
}

func NewDashboardMonitor(reservations *ReservationService, notifier *Notifier) *DashboardMonitor {
	return &DashboardMonitor{
		Reservations: reservations,
		Notifier:     notifier,
		Interval:     5 * time.Second,
		Location:     time.Local,
		Now:          time.Now,
		StopChan:     make(chan struct{}),
	}
}

func (dm *DashboardMonitor) Start() {
	go func() {
		ticker := time.NewTicker(dm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				dm.checkChanges(context.Background())
			case <-dm.StopChan:
				return
			}
		}
	}()
}

func (dm *DashboardMonitor) Stop() {
	dm.stopOnce.Do(func() { close(dm.StopChan) })
}

// checkChanges reports whether a dashboard_update was sent.
func (dm *DashboardMonitor) checkChanges(ctx context.Context) bool {
	today := utils.Today(dm.Location, dm.Now())
	stats, err := dm.Reservations.Stats(ctx, today)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error fetching dashboard stats: %v", err)
		}
		return false
	}
	if dm.last != nil && *dm.last == stats {
		return false
	}
	dm.last = &stats
	dm.Notifier.Notify(ctx, realtime.EventDashboardUpdate, stats)
	return true
}
