package game

// Rules holds the constants that drive transitions and scoring.
type Rules interface {
	// Speed returns how far an agent of the given role moves per turn.
	Speed(role Role, scared bool) float64
	ScaredTime() int
	CollisionTolerance() float64
	TimePenalty() int
	FoodReward() int
	ClearBonus() int
	CaptureBonus() int
	DeathPenalty() int
}
