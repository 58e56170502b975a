package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
	"github.com/marinebus/noaa-weather-relay/internal/observability"
)

// AlertSource is the subset of the NWS client the notifier needs.
type AlertSource interface {
	ActiveAlerts(ctx context.Context, region string) ([]domain.Alert, error)
}

// NotificationSnapshot reads the currently published notification state.
type NotificationSnapshot interface {
	Notifications() map[string]domain.Notification
}

// AlertNotifier reconciles each region's active-alert feed against the
// published notification state. The feed only says what is active right
// now, so clearing happens two ways: an explicit Cancel message clears
// immediately, and an identifier silently missing from its region's feed
// is cleared by the post-feed sweep. The sweep never touches records
// tagged with another region, and never touches records already normal.
type AlertNotifier struct {
	source    AlertSource
	snapshot  NotificationSnapshot
	publisher Publisher

	regions       []string
	defaultMethod []string
	activeState   string

	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAlertNotifier wires the notification cycle.
func NewAlertNotifier(source AlertSource, snapshot NotificationSnapshot, publisher Publisher, regions, defaultMethod []string, activeState string, logger *slog.Logger, metrics *observability.Metrics) *AlertNotifier {
	return &AlertNotifier{
		source:        source,
		snapshot:      snapshot,
		publisher:     publisher,
		regions:       regions,
		defaultMethod: defaultMethod,
		activeState:   activeState,
		logger:        logger,
		metrics:       metrics,
	}
}

// RunCycle reconciles every configured region. Regions are independent:
// one region's fetch failure is reported and the rest still reconcile.
func (n *AlertNotifier) RunCycle(ctx context.Context) error {
	var errs []error
	for _, region := range n.regions {
		if err := n.reconcile(ctx, region); err != nil {
			n.logger.Error("alert reconciliation failed",
				"region", region, "error", err)
			errs = append(errs, fmt.Errorf("region %s: %w", region, err))
		}
	}
	n.updateActiveGauge()
	return errors.Join(errs...)
}

// reconcile runs one region's transitions: feed items first (Cancel wins
// immediately, Alert creates or refreshes), then the absence sweep over
// this region's known notifications.
func (n *AlertNotifier) reconcile(ctx context.Context, region string) error {
	alerts, err := n.source.ActiveAlerts(ctx, region)
	if err != nil {
		return err
	}

	known := n.snapshot.Notifications()
	handled := make(map[string]bool)
	u := domain.Update{
		Source:    "alerts." + region,
		Timestamp: domain.Now(),
	}

	for _, a := range alerts {
		switch a.MessageType {
		case domain.MessageTypeCancel:
			// Marking the id handled makes the sweep below treat it as
			// already-normal rather than re-clearing it.
			handled[a.ID] = true
			cur, ok := known[a.ID]
			if !ok {
				continue
			}
			if cur.State != domain.StateNormal {
				n.metrics.NotificationTransitions.WithLabelValues("cancelled").Inc()
			}
			cur.State = domain.StateNormal
			known[a.ID] = cur
			u.Deltas = append(u.Deltas, domain.Delta{Path: cur.Path, Value: cur})

		case domain.MessageTypeAlert:
			handled[a.ID] = true
			notif := domain.NotificationFromAlert(a, region, n.activeState, n.defaultMethod)
			if cur, ok := known[a.ID]; ok && cur.State != domain.StateNormal {
				// Preserve the method only while the existing record is
				// still active, so a muted alert stays muted across
				// refreshes but a re-trigger starts from the defaults.
				notif.Method = cur.Method
				n.metrics.NotificationTransitions.WithLabelValues("refreshed").Inc()
			} else {
				n.metrics.NotificationTransitions.WithLabelValues("activated").Inc()
			}
			known[a.ID] = notif
			u.Deltas = append(u.Deltas, domain.Delta{Path: notif.Path, Value: notif})

		default:
			// New, Update, and anything else: no transition.
		}
	}

	// Absence sweep: anything this region previously surfaced that the
	// feed no longer lists has expired without an explicit Cancel.
	expired := make([]string, 0)
	for id, cur := range known {
		if cur.Region != region || handled[id] || cur.State == domain.StateNormal {
			continue
		}
		expired = append(expired, id)
	}
	sort.Strings(expired)
	for _, id := range expired {
		cur := known[id]
		cur.State = domain.StateNormal
		known[id] = cur
		u.Deltas = append(u.Deltas, domain.Delta{Path: cur.Path, Value: cur})
		n.metrics.NotificationTransitions.WithLabelValues("expired").Inc()
	}

	if len(u.Deltas) == 0 {
		return nil
	}
	return n.publisher.Publish(ctx, u)
}

func (n *AlertNotifier) updateActiveGauge() {
	var active int
	for _, cur := range n.snapshot.Notifications() {
		if cur.State != domain.StateNormal {
			active++
		}
	}
	n.metrics.ActiveNotifications.Set(float64(active))
}
