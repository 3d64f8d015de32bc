// Package notify delivers owner notifications for found documents.
//
// When a FOUND post lands in a document category carrying a roll
// number, the worker looks up the registered owner of that roll number
// and emails them. Delivery is fire and forget: the posting request
// never waits on, or fails because of, notification work.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfind/campusfind/internal/app/system/mailer"
	"github.com/campusfind/campusfind/internal/app/system/rollnum"
	"github.com/campusfind/campusfind/internal/domain/models"
)

// OwnerLookup resolves a normalized roll number to its registered
// owner. Implemented by the users store.
type OwnerLookup interface {
	FindByNormalizedRoll(ctx context.Context, normalized string) (*models.User, error)
}

// Sender delivers a single email. Implemented by mailer.Mailer.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Event describes a newly created post that may warrant a
// notification.
type Event struct {
	PostType             string
	Category             string
	RollNumber           string // as entered by the finder
	NormalizedRollNumber string
	Location             string
	FinderEmail          string
	FinderPhone          string
}

// ShouldNotify reports whether an event meets the trigger conditions:
// a FOUND item in a document category with a roll number attached.
func ShouldNotify(e Event) bool {
	if e.PostType != models.TypeFound {
		return false
	}
	if e.NormalizedRollNumber == "" {
		return false
	}
	for _, c := range models.DocumentCategories {
		if e.Category == c {
			return true
		}
	}
	return false
}

// Worker processes notification events from a bounded queue.
type Worker struct {
	owners   OwnerLookup
	sender   Sender
	log      *zap.Logger
	siteName string
	siteURL  string
	queue    chan Event
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates a notification worker with a queue of the given
// capacity.
func NewWorker(owners OwnerLookup, sender Sender, log *zap.Logger, siteName, siteURL string, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Worker{
		owners:   owners,
		sender:   sender,
		log:      log,
		siteName: siteName,
		siteURL:  siteURL,
		queue:    make(chan Event, queueSize),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background delivery loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification worker started", zap.Int("queue_size", cap(w.queue)))
}

// Stop signals the worker to stop and waits for in-flight deliveries
// to finish. Queued events that have not started are dropped.
func (w *Worker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("notification worker stopped")
}

// Enqueue submits an event for delivery. Events that do not meet the
// trigger conditions are ignored, and a full queue drops the event
// with a warning rather than blocking the caller.
func (w *Worker) Enqueue(e Event) {
	if !ShouldNotify(e) {
		return
	}
	select {
	case w.queue <- e:
	default:
		w.log.Warn("notification queue full, dropping event",
			zap.String("roll_number", e.NormalizedRollNumber))
	}
}

func (w *Worker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case e := <-w.queue:
			w.deliver(e)
		}
	}
}

// deliver looks up the roll number's owner and emails them. An
// unmatched roll number is a normal outcome, not an error: most found
// cards belong to people who never registered.
func (w *Worker) deliver(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dispatchID := uuid.NewString()

	owner, err := w.owners.FindByNormalizedRoll(ctx, e.NormalizedRollNumber)
	if err != nil {
		w.log.Error("owner lookup failed",
			zap.String("dispatch_id", dispatchID),
			zap.String("roll_number", e.NormalizedRollNumber),
			zap.Error(err))
		return
	}
	if owner == nil {
		w.log.Debug("no registered owner for roll number",
			zap.String("dispatch_id", dispatchID),
			zap.String("roll_number", e.NormalizedRollNumber))
		return
	}

	// The email shows the roll number as the finder entered it, so the
	// owner recognizes their own card.
	roll := e.RollNumber
	if roll == "" {
		roll = rollnum.Format(e.NormalizedRollNumber)
	}
	email := mailer.BuildIDCardFoundEmail(mailer.IDCardFoundData{
		SiteName:    w.siteName,
		SiteURL:     w.siteURL,
		OwnerName:   owner.FullName,
		RollNumber:  roll,
		Location:    e.Location,
		FinderEmail: e.FinderEmail,
		FinderPhone: e.FinderPhone,
	})
	email.To = owner.Email

	if err := w.sender.Send(ctx, email); err != nil {
		w.log.Error("notification email failed",
			zap.String("dispatch_id", dispatchID),
			zap.String("to", owner.Email),
			zap.Error(err))
		return
	}

	w.log.Info("owner notified of found document",
		zap.String("dispatch_id", dispatchID),
		zap.String("to", owner.Email),
		zap.String("roll_number", e.NormalizedRollNumber))
}
