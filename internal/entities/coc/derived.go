package coc

import "time"

// Modifier is a temporary named adjustment on a derived value
type Modifier struct {
	Name      string    `json:"name" yaml:"name"`
	Value     int       `json:"value" yaml:"value"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// DerivedValue is a computed maximum with a current value and modifiers
type DerivedValue struct {
	Maximum   int        `json:"maximum" yaml:"maximum"`
	Current   int        `json:"current" yaml:"current"`
	Modifiers []Modifier `json:"modifiers" yaml:"modifiers"`
}

// Effective returns Maximum plus all modifiers, floored at 0
func (d DerivedValue) Effective() int {
	v := d.Maximum
	for _, m := range d.Modifiers {
		v += m.Value
	}
	if v < 0 {
		return 0
	}
	return v
}

// Movement holds the movement rate and its derived rates
type Movement struct {
	Base      int        `json:"base" yaml:"base"`
	Running   int        `json:"running" yaml:"running"`
	Climbing  int        `json:"climbing" yaml:"climbing"`
	Swimming  int        `json:"swimming" yaml:"swimming"`
	Modifiers []Modifier `json:"modifiers" yaml:"modifiers"`
}

// Effective returns the movement rate plus modifiers, floored at 0
func (m Movement) Effective() int {
	v := m.Base
	for _, mod := range m.Modifiers {
		v += mod.Value
	}
	if v < 0 {
		return 0
	}
	return v
}

// DerivedStats are the values computed from final attributes
type DerivedStats struct {
	HitPoints   DerivedValue `json:"hitPoints" yaml:"hitPoints"`
	Sanity      DerivedValue `json:"sanity" yaml:"sanity"`
	MagicPoints DerivedValue `json:"magicPoints" yaml:"magicPoints"`
	Luck        DerivedValue `json:"luck" yaml:"luck"`
	Movement    Movement     `json:"movement" yaml:"movement"`
	Build       int          `json:"build" yaml:"build"`
	DamageBonus string       `json:"damageBonus" yaml:"damageBonus"`
}
