package engine

// Daily demand per resident.
const (
	ResidentOxygen = 1
	ResidentWater  = 2
	ResidentFood   = 1
)

// Daily demand per farm.
const (
	FarmWater  = 3
	FarmEnergy = 1
)

// Daily farm yield, granted only when the farms' water and energy were met.
const (
	FarmFoodYield   = 5
	FarmOxygenYield = 2
)

// BaseEnergy is the unconditional daily energy input.
const BaseEnergy = 10
