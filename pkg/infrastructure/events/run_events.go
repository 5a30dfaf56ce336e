package events

import (
	"github.com/sirupsen/logrus"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

const (
	SourceLoadedEvent      = "source.loaded"
	SourceEmptyEvent       = "source.empty"
	SourceUnavailableEvent = "source.unavailable"
	SourceSkippedEvent     = "source.skipped"

	WarningRaisedEvent = "warning.raised"

	SheetComposedEvent = "sheet.composed"

	ReportWrittenEvent       = "report.written"
	ReportPublishedEvent     = "report.published"
	ReportPublishFailedEvent = "report.publish_failed"
)

// SourceEventType maps a source outcome to its event type
func SourceEventType(status entities.SourceStatus) string {
	switch status {
	case entities.SourceLoaded:
		return SourceLoadedEvent
	case entities.SourceEmpty:
		return SourceEmptyEvent
	case entities.SourceSkipped:
		return SourceSkippedEvent
	default:
		return SourceUnavailableEvent
	}
}

type SourceRecorded struct {
	Branch  string                `json:"branch"`
	Source  string                `json:"source"`
	File    string                `json:"file,omitempty"`
	Status  entities.SourceStatus `json:"status"`
	Records int                   `json:"records"`
	Message string                `json:"message,omitempty"`
}

type WarningRaised struct {
	Branch  string `json:"branch,omitempty"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

type SheetComposed struct {
	Branch  string `json:"branch"`
	Sheet   string `json:"sheet"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

type ReportWritten struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

type ReportPublished struct {
	URI string `json:"uri"`
}

type ReportPublishFailed struct {
	Error string `json:"error"`
}

// Journal appends the events of one run to a store under the run ID
type Journal struct {
	store EventStore
	runID string
}

// NewJournal creates a journal for runID
func NewJournal(store EventStore, runID string) *Journal {
	return &Journal{store: store, runID: runID}
}

// RunID returns the stream the journal writes to
func (j *Journal) RunID() string {
	return j.runID
}

// Record appends one event
func (j *Journal) Record(eventType string, data interface{}) error {
	return j.store.AppendEvent(j.runID, NewEvent(eventType, j.runID, data))
}

// Events returns the run's events in order
func (j *Journal) Events() []Event {
	events, err := j.store.ReadEvents(j.runID, 1)
	if err != nil {
		return nil
	}
	return events
}

// Warnings returns the warnings raised during the run
func (j *Journal) Warnings() []WarningRaised {
	var warnings []WarningRaised
	for _, e := range j.Events() {
		if w, ok := e.Data().(WarningRaised); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// LogHandler mirrors journal events into the run log
type LogHandler struct {
	logger *logrus.Logger
}

// NewLogHandler creates a handler writing to logger
func NewLogHandler(logger *logrus.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// CanHandle accepts every event type
func (h *LogHandler) CanHandle(eventType string) bool {
	return true
}

// Handle writes one log entry per event, stamped with the event's time.
// Loaded sources log at info, degraded sources and warnings at warn, and a
// failed upload at error.
func (h *LogHandler) Handle(event Event) error {
	entry := h.logger.WithTime(event.Timestamp()).WithFields(logrus.Fields{
		"run_id": event.StreamID(),
		"event":  event.Type(),
		"seq":    event.Version(),
	})
	switch data := event.Data().(type) {
	case SourceRecorded:
		entry = entry.WithFields(logrus.Fields{"branch": data.Branch, "source": data.Source, "records": data.Records})
		if data.Status == entities.SourceLoaded {
			entry.Infof("%s loaded", data.Source)
		} else {
			entry.Warnf("%s %s: %s", data.Source, data.Status, data.Message)
		}
	case WarningRaised:
		entry.WithField("file", data.File).Warn(data.Message)
	case ReportPublishFailed:
		entry.Error(data.Error)
	default:
		entry.Debug("journal event")
	}
	return nil
}
