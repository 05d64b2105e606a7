package ics

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/coursecal/coursecal/internal/utils"
	"github.com/coursecal/coursecal/pkg/schedule"
)

const (
	uidDomain       = "coursecal"
	localTimeLayout = "20060102T150405"
)

// ErrNoOccurrences is returned when Encode is called with nothing to encode.
// The pipeline guards against this before reaching the encoder.
var ErrNoOccurrences = errors.New("no occurrences to encode")

// Encoder serializes occurrences into an iCalendar document. Every
// occurrence becomes one discrete VEVENT rather than an RRULE, so importers
// render exactly the expanded set regardless of their recurrence support.
type Encoder struct {
	productID string
	tzid      string
	clock     utils.Clock
}

func NewEncoder(productID string, tzid string, clock utils.Clock) *Encoder {
	return &Encoder{productID: productID, tzid: tzid, clock: clock}
}

// Encode renders the occurrences as UTF-8 iCalendar bytes. Event times are
// local wall-clock values carrying the configured TZID parameter,
// consistently for every event.
func (e *Encoder) Encode(occurrences []schedule.Occurrence) ([]byte, error) {
	if len(occurrences) == 0 {
		return nil, ErrNoOccurrences
	}

	cal := ical.NewCalendar()
	cal.SetProductId(e.productID)
	cal.SetMethod(ical.MethodPublish)

	stamp := e.clock.Now().UTC()
	tzid := &ical.KeyValues{Key: "TZID", Value: []string{e.tzid}}

	for _, occ := range occurrences {
		event := cal.AddEvent(uuid.NewString() + "@" + uidDomain)
		event.SetDtStampTime(stamp)
		event.SetProperty(ical.ComponentPropertyDtStart, occ.Start.Format(localTimeLayout), tzid)
		event.SetProperty(ical.ComponentPropertyDtEnd, occ.End.Format(localTimeLayout), tzid)
		event.SetProperty(ical.ComponentPropertySummary, escapeText(occ.Title))
		if occ.Location != "" {
			event.SetProperty(ical.ComponentPropertyLocation, escapeText(occ.Location))
		}
		if occ.Description != "" {
			event.SetProperty(ical.ComponentPropertyDescription, escapeText(occ.Description))
		}
	}

	log.Debugf("encoded %d events at %s", len(occurrences), stamp.Format(time.RFC3339))
	return []byte(cal.Serialize()), nil
}

// escapeText applies RFC 5545 text escaping to reserved characters.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
