package game

// ClassicRules are the scoring and movement constants of the classic game.
type ClassicRules struct {
	PrimarySpeed float64 `yaml:"primary_speed" json:"primary_speed"`
	PursuerSpeed float64 `yaml:"pursuer_speed" json:"pursuer_speed"`
	ScaredTicks  int     `yaml:"scared_time" json:"scared_time"`
	Tolerance    float64 `yaml:"collision_tolerance" json:"collision_tolerance"`
	Penalty      int     `yaml:"time_penalty" json:"time_penalty"`
	Food         int     `yaml:"food_reward" json:"food_reward"`
	Clear        int     `yaml:"clear_bonus" json:"clear_bonus"`
	Capture      int     `yaml:"capture_bonus" json:"capture_bonus"`
	Death        int     `yaml:"death_penalty" json:"death_penalty"`
}

func NewClassicRules() *ClassicRules {
	return &ClassicRules{
		PrimarySpeed: 1,
		PursuerSpeed: 1,
		ScaredTicks:  40,
		Tolerance:    0.7,
		Penalty:      1,
		Food:         10,
		Clear:        500,
		Capture:      200,
		Death:        500,
	}
}

// Snapshot copies the constants of any rules. Scared pursuers of the copy move at half
// their normal speed.
func Snapshot(rules Rules) ClassicRules {
	if cr, ok := rules.(*ClassicRules); ok {
		return *cr
	}
	return ClassicRules{
		PrimarySpeed: rules.Speed(Primary, false),
		PursuerSpeed: rules.Speed(Pursuer, false),
		ScaredTicks:  rules.ScaredTime(),
		Tolerance:    rules.CollisionTolerance(),
		Penalty:      rules.TimePenalty(),
		Food:         rules.FoodReward(),
		Clear:        rules.ClearBonus(),
		Capture:      rules.CaptureBonus(),
		Death:        rules.DeathPenalty(),
	}
}

func (cr *ClassicRules) Speed(role Role, scared bool) float64 {
	if role == Primary {
		return cr.PrimarySpeed
	}
	if scared {
		return cr.PursuerSpeed / 2
	}
	return cr.PursuerSpeed
}

func (cr *ClassicRules) ScaredTime() int {
	return cr.ScaredTicks
}

func (cr *ClassicRules) CollisionTolerance() float64 {
	return cr.Tolerance
}

func (cr *ClassicRules) TimePenalty() int {
	return cr.Penalty
}

func (cr *ClassicRules) FoodReward() int {
	return cr.Food
}

func (cr *ClassicRules) ClearBonus() int {
	return cr.Clear
}

func (cr *ClassicRules) CaptureBonus() int {
	return cr.Capture
}

func (cr *ClassicRules) DeathPenalty() int {
	return cr.Death
}
