package realtime

// Event names pushed to connected clients.
const (
	EventAdjustmentComputed = "AlarmAdjustmentComputed"
	EventAdaptationRecorded = "AlarmAdaptationRecorded"
	EventConfigReviewed     = "AlarmConfigReviewed"
)

// SSEMessage is one realtime payload, addressed to a channel. Channels are
// "user:<uuid>" or "alarm:<uuid>".
type SSEMessage struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Data    any    `json:"data,omitempty"`
}
