package contract

import (
	"fmt"
	"time"
)

// Intent is the closed set of conversation goals the engine routes on.
// Routing is an exhaustive switch, not an open registry; adding an intent
// means touching the dispatcher on purpose.
type Intent string

const (
	IntentBooking         Intent = "booking"
	IntentMenuInquiry     Intent = "menu_inquiry"
	IntentHoursInquiry    Intent = "hours_inquiry"
	IntentLocationInquiry Intent = "location_inquiry"
	IntentGeneralChat     Intent = "general_chat"
)

// RestaurantFacts parameterizes canned info replies and the chat persona.
type RestaurantFacts struct {
	Name        string `split_words:"true" default:"Bella Vista Restaurant"`
	Cuisine     string `split_words:"true" default:"Italian with Luxembourg touches"`
	Hours       string `split_words:"true" default:"Mon-Thu 11:30AM-10PM, Fri-Sat 11:30AM-11PM, Closed Sundays"`
	Location    string `split_words:"true" default:"15 Rue de la Paix, Luxembourg City"`
	Phone       string `split_words:"true" default:"+352 12 34 56 78"`
	Specialties string `split_words:"true" default:"Homemade pasta, Wood-fired pizza, Local wine"`
	PersonaName string `split_words:"true" default:"Maria"`
}

// ConfirmedBooking is the immutable record produced by finalization.
type ConfirmedBooking struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	CallerID  string    `json:"caller_id"`
	Name      string    `json:"name"`
	PartySize int       `json:"party_size"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const BookingStatusConfirmed = "confirmed"

// BookingReference derives the guest-facing reference from the persisted
// sequence id. Stores and the finalizer must agree on this format, so it
// lives here rather than in either of them.
func BookingReference(prefix string, id int64) string {
	return fmt.Sprintf("%s%03d", prefix, id)
}

// BookingFilter narrows List results. Date matches by substring because
// dates are stored as the guest's literal wording ("tomorrow", "october 4").
type BookingFilter struct {
	Date  string
	Limit int
}

// ConversationEntry is one logged inbound/outbound pair.
type ConversationEntry struct {
	ID       int64     `json:"id"`
	CallerID string    `json:"caller_id"`
	Inbound  string    `json:"inbound"`
	Outbound string    `json:"outbound"`
	At       time.Time `json:"at"`
}
