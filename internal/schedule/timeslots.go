package schedule

// TimeSlots are the start times the form offers, every 30 minutes from
// 8:00 AM to 5:30 PM.
var TimeSlots = []string{
	"8:00 AM", "8:30 AM",
	"9:00 AM", "9:30 AM",
	"10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM",
	"12:00 PM", "12:30 PM",
	"1:00 PM", "1:30 PM",
	"2:00 PM", "2:30 PM",
	"3:00 PM", "3:30 PM",
	"4:00 PM", "4:30 PM",
	"5:00 PM", "5:30 PM",
}

func IsTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}
