package domain

import (
	"errors"
	"time"
)

// Trip is a submitted trip as stored by the Voyager backend.
// ID and CreatedAt are assigned by the server.
type Trip struct {
	ID                   string                `json:"id,omitempty"`
	UserID               string                `json:"userId,omitempty"`
	TripName             string                `json:"tripName"`
	Destination          string                `json:"destination"`
	StartDate            string                `json:"startDate"`
	EndDate              string                `json:"endDate"`
	Currency             Currency              `json:"currency"`
	BudgetRange          string                `json:"budgetRange"`
	BudgetAmount         int                   `json:"budgetAmount"`
	Companions           Companions            `json:"companions"`
	NumberOfPeople       *int                  `json:"numberOfPeople,omitempty"`
	SpecificDestinations []SpecificDestination `json:"specificDestinations"`
	Itinerary            []ItineraryDay        `json:"itinerary,omitempty"`
	Countries            []string              `json:"countries,omitempty"`
	CreatedAt            string                `json:"createdAt,omitempty"`
}

// ItineraryDay is one generated day. The client never mutates it.
type ItineraryDay struct {
	Day        int                 `json:"day"`
	Date       string              `json:"date"`
	Activities []ItineraryActivity `json:"activities"`
}

// ItineraryActivity is a single scheduled activity within a day.
type ItineraryActivity struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Country     string `json:"country"`
}

// Destination is a browsable place a user can save to their passport.
type Destination struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Country     string   `json:"country,omitempty"`
	Region      string   `json:"region,omitempty"`
	// IsPersonalized marks destinations picked for the user's tags.
	IsPersonalized bool `json:"isPersonalized,omitempty"`
}

// ToSpecific promotes a saved destination to a SpecificDestination with the
// deterministic saved-<id> identifier.
func (d Destination) ToSpecific() SpecificDestination {
	return SpecificDestination{
		ID:      SavedSpecificID(d.ID),
		Name:    d.Name,
		Address: d.Location,
	}
}

// TripFromDraft builds the Trip shape for a validated draft. Callers must
// run d.Validate first; the itinerary is attached separately.
func TripFromDraft(d TripDraft, budgetRange string, createdAt time.Time) Trip {
	specific := d.SpecificDestinations
	if specific == nil {
		specific = []SpecificDestination{}
	}
	return Trip{
		TripName:             d.TripName,
		Destination:          d.Destination,
		StartDate:            FormatDate(d.StartDate),
		EndDate:              FormatDate(d.EndDate),
		Currency:             d.Currency,
		BudgetRange:          budgetRange,
		BudgetAmount:         d.BudgetAmount,
		Companions:           d.Companions,
		NumberOfPeople:       d.People(),
		SpecificDestinations: append([]SpecificDestination(nil), specific...),
		CreatedAt:            createdAt.UTC().Format(time.RFC3339),
	}
}

// DraftFromTrip loads a stored trip back into an editable draft.
//
// If either stored date does not parse, both dates are left empty and the
// returned error is a *ValidationError for FieldDates joined with the parse
// failure. The draft is usable either way.
func DraftFromTrip(t Trip, today time.Time) (TripDraft, error) {
	d := NewDraft(today)
	d.TripName = t.TripName
	d.Destination = t.Destination
	d.SpecificDestinations = append([]SpecificDestination(nil), t.SpecificDestinations...)
	start, startErr := ParseDate(t.StartDate)
	end, endErr := ParseDate(t.EndDate)
	var err error
	if perr := errors.Join(startErr, endErr); perr != nil {
		err = errors.Join(&ValidationError{Fields: []Field{FieldDates}}, perr)
	} else {
		d.StartDate, d.EndDate = start, end
	}
	if t.Currency.Valid() {
		d.Currency = t.Currency
	}
	d.SetBudget(t.BudgetAmount)
	d.Companions = t.Companions
	if t.NumberOfPeople != nil {
		d.SetPeople(*t.NumberOfPeople)
	}
	if d.StartDate != nil {
		d.CalMonth = d.StartDate.Month()
		d.CalYear = d.StartDate.Year()
	}
	return d, err
}

// Itinerary is the result of itinerary generation.
type Itinerary struct {
	Days      []ItineraryDay `json:"itinerary"`
	Countries []string       `json:"countries"`
}

// ItineraryRequest carries the travel parameters sent for generation.
type ItineraryRequest struct {
	Destination          string                `json:"destination"`
	StartDate            string                `json:"startDate"`
	EndDate              string                `json:"endDate"`
	Currency             Currency              `json:"currency"`
	BudgetAmount         int                   `json:"budgetAmount"`
	Companions           Companions            `json:"companions"`
	NumberOfPeople       *int                  `json:"numberOfPeople,omitempty"`
	SpecificDestinations []SpecificDestination `json:"specificDestinations"`
	ClarifyingAnswers    []ClarifyingAnswer    `json:"clarifyingAnswers,omitempty"`
}

// ItineraryRequestFor returns the generation parameters of t.
func ItineraryRequestFor(t Trip, answers []ClarifyingAnswer) ItineraryRequest {
	return ItineraryRequest{
		Destination:          t.Destination,
		StartDate:            t.StartDate,
		EndDate:              t.EndDate,
		Currency:             t.Currency,
		BudgetAmount:         t.BudgetAmount,
		Companions:           t.Companions,
		NumberOfPeople:       t.NumberOfPeople,
		SpecificDestinations: t.SpecificDestinations,
		ClarifyingAnswers:    answers,
	}
}

// Question is a yes/no clarifying question asked before generation.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ClarifyingAnswer pairs a question's text with the traveller's answer.
type ClarifyingAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
