package handlers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/models"
)

const (
	monitorInterval = 30 * time.Second
	monitorWindow   = 5 * time.Minute
	dedupCapacity   = 100
)

// NotificationMonitor periodically scans for freshly created bookings and
// reports and raises in-app notifications for them. The legacy client ran
// this as a page-global singleton guarded by a boolean; here it is an owned
// background task: Start is idempotent, Stop cancels and waits.
type NotificationMonitor struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	seen *dedupRing

	// recorded reports whether a notification of this type already exists
	// for the booking. The lifecycle handlers write their rows synchronously,
	// so the ring alone cannot tell an unseen row from an already-notified one.
	recorded func(ntype models.NotificationType, bookingCode string) bool
}

// NewNotificationMonitor builds a stopped monitor.
func NewNotificationMonitor() *NotificationMonitor {
	return &NotificationMonitor{
		seen:     newDedupRing(dedupCapacity),
		recorded: notificationRecorded,
	}
}

// Start launches the polling loop. Calling Start on a running monitor is a
// no-op.
func (m *NotificationMonitor) Start(parent context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.run(ctx)
	log.Println("📡 Notification monitor started")
}

// Stop cancels the loop and waits for it to exit. Safe to call on a stopped
// monitor.
func (m *NotificationMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.running = false
	m.mu.Unlock()

	cancel()
	<-done
	log.Println("📡 Notification monitor stopped")
}

func (m *NotificationMonitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scan()
		}
	}
}

// scan looks at rows created inside the window and notifies about any id not
// seen before.
func (m *NotificationMonitor) scan() {
	since := time.Now().Add(-monitorWindow)

	var bookings []models.Booking
	if err := config.DB.Where("created_at >= ?", since).Find(&bookings).Error; err != nil {
		log.Printf("⚠️  Monitor booking scan failed: %v", err)
	} else {
		for _, b := range bookings {
			if !m.shouldNotify("booking:"+b.ID.String(), models.NotificationTypeBookingCreated, b.BookingCode) {
				continue
			}
			notifyRoles([]string{models.RoleAdmin, models.RoleManager}, models.Notification{
				Type:        models.NotificationTypeBookingCreated,
				Priority:    models.NotificationPriorityNormal,
				Title:       "Booking baru terdeteksi",
				Body:        fmt.Sprintf("%s - %s", b.BookingCode, b.CustomerName),
				BookingCode: b.BookingCode,
			})
		}
	}

	var reports []models.WorkReport
	if err := config.DB.Where("created_at >= ? AND status = ?", since, models.ReportStatusPendingApproval).
		Find(&reports).Error; err != nil {
		log.Printf("⚠️  Monitor report scan failed: %v", err)
		return
	}
	for _, rep := range reports {
		if !m.shouldNotify("report:"+rep.ID.String(), models.NotificationTypeReportSubmitted, rep.BookingCode) {
			continue
		}
		notifyRoles([]string{models.RoleAdmin, models.RoleManager}, models.Notification{
			Type:        models.NotificationTypeReportSubmitted,
			Priority:    models.NotificationPriorityNormal,
			Title:       "Laporan menunggu persetujuan",
			Body:        fmt.Sprintf("%s - unit %d", rep.BookingCode, rep.UnitNumber),
			BookingCode: rep.BookingCode,
		})
	}
}

// shouldNotify dedups a scanned row against the in-memory ring and against
// notification rows already written by the lifecycle handlers, so the monitor
// only picks up rows that arrived outside the API (or that slipped past a
// handler's notify step).
func (m *NotificationMonitor) shouldNotify(ringID string, ntype models.NotificationType, bookingCode string) bool {
	if !m.seen.Add(ringID) {
		return false
	}
	return !m.recorded(ntype, bookingCode)
}

func notificationRecorded(ntype models.NotificationType, bookingCode string) bool {
	var n int64
	if err := config.DB.Model(&models.Notification{}).
		Where("type = ? AND booking_code = ?", ntype, bookingCode).
		Count(&n).Error; err != nil {
		log.Printf("⚠️  Notification dedup lookup failed: %v", err)
		return false
	}
	return n > 0
}

// dedupRing remembers the most recent ids it was given, evicting the oldest
// once capacity is reached. Matches the capped "already notified" list the
// legacy client persisted.
type dedupRing struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	cap   int
}

func newDedupRing(capacity int) *dedupRing {
	return &dedupRing{
		ids: make(map[string]struct{}, capacity),
		cap: capacity,
	}
}

// Add records the id and reports whether it was new.
func (d *dedupRing) Add(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.ids[id]; ok {
		return false
	}

	d.ids[id] = struct{}{}
	d.order = append(d.order, id)
	if len(d.order) > d.cap {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.ids, oldest)
	}
	return true
}

// Len reports how many ids are currently remembered.
func (d *dedupRing) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}
