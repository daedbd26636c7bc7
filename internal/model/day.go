package model

// DayRecord is the trace of one simulated day.
type DayRecord struct {
	Day       int    `json:"day"`
	Demand    Demand `json:"demand"`
	Report    Report `json:"report"`
	Before    Stock  `json:"before"`
	After     Stock  `json:"after"`
	FarmBonus bool   `json:"farm_bonus"`
}
