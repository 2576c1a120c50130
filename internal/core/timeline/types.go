package timeline

// Category identifies which source stream a timeline event came from.
type Category string

const (
	CategoryMission Category = "mission"
	CategoryPilot   Category = "pilot"
	CategoryIpad    Category = "ipad"
	CategoryConsole Category = "console"
)

// Event is a single point on the unified flight timeline. Events are
// constructed fresh on every build and never mutated.
type Event struct {
	Timestamp        string   `json:"timestamp"`
	SecondsFromStart float64  `json:"secondsFromStart"`
	Category         Category `json:"category"`
	Label            string   `json:"label"`
	Value            any      `json:"value,omitempty"`
}

// DropStats accounts for candidate events excluded from the timeline:
// events before the start anchor usually carry housekeeping timestamps
// leaked from a prior flight, events past the flight end from a
// subsequent one.
type DropStats struct {
	BeforeStart int `json:"beforeStart"`
	AfterEnd    int `json:"afterEnd"`
}

// Total returns the number of dropped candidate events.
func (d DropStats) Total() int {
	return d.BeforeStart + d.AfterEnd
}
