package domain

// DefaultTimeSlots is the schedule used until an admin configures one.
var DefaultTimeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
}

// DefaultWeekdays is Monday through Friday (0 = Sunday).
var DefaultWeekdays = []int{1, 2, 3, 4, 5}

const (
	ConfigTimeSlots         = "time_slots"
	ConfigBlockedDates      = "blocked_dates"
	ConfigAvailableWeekdays = "available_weekdays"

	SettingAdminSecret = "admin_secret"
	MinAdminSecretLen  = 4
)

type BookingConfig struct {
	TimeSlots         []string `json:"time_slots"`
	BlockedDates      []string `json:"blocked_dates"`
	AvailableWeekdays []int    `json:"available_weekdays"`
}

// PublicBookingConfig is the shape served to the booking form.
type PublicBookingConfig struct {
	TimeSlots         []string `json:"timeSlots"`
	BlockedDates      []string `json:"blockedDates"`
	AvailableWeekdays []int    `json:"availableWeekdays"`
}

func (c BookingConfig) Public() PublicBookingConfig {
	return PublicBookingConfig{
		TimeSlots:         c.TimeSlots,
		BlockedDates:      c.BlockedDates,
		AvailableWeekdays: c.AvailableWeekdays,
	}
}

// IsBlocked reports whether dateISO is a fully unavailable day.
func (c BookingConfig) IsBlocked(dateISO string) bool {
	for _, d := range c.BlockedDates {
		if d == dateISO {
			return true
		}
	}
	return false
}

// BookingConfigUpdate is a partial update; nil lists are left unchanged.
type BookingConfigUpdate struct {
	TimeSlots         []string `json:"time_slots"`
	BlockedDates      []string `json:"blocked_dates"`
	AvailableWeekdays []int    `json:"available_weekdays"`
}

// ValidWeekdays drops values outside 0..6.
func ValidWeekdays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, d)
		}
	}
	return out
}

type Availability struct {
	Taken []string `json:"taken"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
