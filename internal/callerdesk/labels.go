package callerdesk

var strategyNames = map[string]string{
	"1": "Round Robin",
	"2": "Sequential",
	"3": "Random",
	"4": "Least Occupied",
	"5": "Parallel",
	"6": "Least Idle",
}

// StrategyName maps a call_strategy code to its label.
func StrategyName(code string) string {
	if n, ok := strategyNames[code]; ok {
		return n
	}
	return "Unknown"
}

var contactStatusLabels = map[string]string{
	"1": "Hot Lead",
	"2": "Warm Lead",
	"3": "Cold Lead",
	"4": "Invalid",
	"5": "Disqualified",
	"6": "Prospect",
}

// ContactStatusLabel maps a contact_status code to its label.
func ContactStatusLabel(code string) string {
	if l, ok := contactStatusLabels[code]; ok {
		return l
	}
	return "Unknown"
}
