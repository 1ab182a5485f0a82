package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(codesCreated, redemptions, creatorNotices, adminCommands)
}

var (
	codesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codes_created_total",
			Help: "Redemption codes created by administrators.",
		},
	)

	redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Redemption attempts by terminal outcome.",
		},
		[]string{"outcome"},
	)

	creatorNotices = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_notices_total",
			Help: "Code-expired creator notifications by delivery status (delivered/failed/dropped).",
		},
		[]string{"status"},
	)

	adminCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_commands_total",
			Help: "Admin bot commands by command and authorization result.",
		},
		[]string{"command", "result"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func CodeCreated() {
	codesCreated.Inc()
}

func RedemptionObserved(outcome string) {
	redemptions.WithLabelValues(norm(outcome)).Inc()
}

func CreatorNoticeObserved(status string) {
	creatorNotices.WithLabelValues(norm(status)).Inc()
}

func IncAdminCommand(command, result string) {
	adminCommands.WithLabelValues(command, norm(result)).Inc()
}
