package listview

// Status is what a list screen should render.
type Status string

const (
	// StatusIdle: not started yet and nothing to show.
	StatusIdle Status = "idle"
	// StatusLoading: first load in progress (full spinner).
	StatusLoading Status = "loading"
	// StatusError: first load failed; a retry is pending.
	StatusError Status = "error"
	// StatusEmpty: the current page has no items.
	StatusEmpty Status = "empty"
	// StatusReady: items are shown.
	StatusReady Status = "ready"
)

// View is a consistent snapshot of one list screen.
type View[T any] struct {
	Resource        string        `json:"resource"`
	Status          Status        `json:"status"`
	Refreshing      bool          `json:"refreshing"`
	Items           []T           `json:"items"`
	TotalElements   int64         `json:"total_elements"`
	TotalPages      int           `json:"total_pages"`
	Number          int           `json:"number"`
	Size            int           `json:"size"`
	First           bool          `json:"first"`
	Last            bool          `json:"last"`
	RawSearch       string        `json:"raw_search"`
	SearchPending   bool          `json:"search_pending"`
	Filters         Filters       `json:"filters"`
	HasReceivedData bool          `json:"has_received_data"`
	Error           string        `json:"error,omitempty"`
	Trigger         TriggerState  `json:"trigger"`
	Pending         *Confirmation `json:"pending,omitempty"`
	Fetches         int           `json:"fetches"`
}

// deriveStatus never reports loading once data has been received: later fetches
// show as a refresh overlay on top of the last page instead.
func deriveStatus(hasData, busy, failed, empty bool) Status {
	if hasData {
		if empty {
			return StatusEmpty
		}
		return StatusReady
	}
	switch {
	case busy:
		return StatusLoading
	case failed:
		return StatusError
	default:
		return StatusIdle
	}
}
