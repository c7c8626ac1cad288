package response

import (
	"time"

	"meetslot/internal/usecase"
)

// LocalTimeResponse is an instant rendered in the visitor's timezone, split
// so clients can display the date and clock time without reparsing the ISO
// form.
type LocalTimeResponse struct {
	Date string `json:"date"`
	Time string `json:"time"`
	ISO  string `json:"iso"`
}

type SlotResponse struct {
	StartAtUTC string            `json:"startAtUtc"`
	EndAtUTC   string            `json:"endAtUtc"`
	StartLocal LocalTimeResponse `json:"startLocal"`
	EndLocal   LocalTimeResponse `json:"endLocal"`
	Token      string            `json:"token"`
}

type EventInfoResponse struct {
	Name            string `json:"name"`
	HostName        string `json:"hostName"`
	HostUsername    string `json:"hostUsername"`
	HostTimezone    string `json:"hostTimezone"`
	DurationMin     int    `json:"durationMinutes"`
	BufferBeforeMin int    `json:"bufferBeforeMinutes"`
	BufferAfterMin  int    `json:"bufferAfterMinutes"`
	LocationType    string `json:"locationType"`
}

type SlotListResponse struct {
	Event           EventInfoResponse `json:"event"`
	VisitorDate     string            `json:"visitorDate"`
	VisitorTimezone string            `json:"visitorTimezone"`
	Slots           []SlotResponse    `json:"slots"`
}

func localTimeOf(t time.Time) LocalTimeResponse {
	return LocalTimeResponse{
		Date: t.Format("2006-01-02"),
		Time: t.Format("15:04"),
		ISO:  t.Format(time.RFC3339),
	}
}

func FromSlotList(list *usecase.SlotList) SlotListResponse {
	slots := make([]SlotResponse, len(list.Slots))
	for i, s := range list.Slots {
		slots[i] = SlotResponse{
			StartAtUTC: s.StartAtUTC.Format(time.RFC3339),
			EndAtUTC:   s.EndAtUTC.Format(time.RFC3339),
			StartLocal: localTimeOf(s.StartLocal),
			EndLocal:   localTimeOf(s.EndLocal),
			Token:      s.Token,
		}
	}
	et := list.Event
	return SlotListResponse{
		Event: EventInfoResponse{
			Name:            et.EventType.Name,
			HostName:        et.HostName,
			HostUsername:    et.HostUsername,
			HostTimezone:    et.HostTimezone,
			DurationMin:     et.EventType.DurationMin,
			BufferBeforeMin: et.EventType.BufferBeforeMin,
			BufferAfterMin:  et.EventType.BufferAfterMin,
			LocationType:    et.EventType.LocationType,
		},
		VisitorDate:     list.Date.String(),
		VisitorTimezone: list.Timezone,
		Slots:           slots,
	}
}
