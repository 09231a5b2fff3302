package coc

// Attribute is a characteristic value with its half and fifth thresholds.
// HalfValue and FifthValue are only ever derived from Value.
type Attribute struct {
	Value      int `json:"value" yaml:"value"`
	HalfValue  int `json:"halfValue" yaml:"halfValue"`
	FifthValue int `json:"fifthValue" yaml:"fifthValue"`
}

// NewAttribute builds an Attribute, clamping value to [0,99]
func NewAttribute(value int) Attribute {
	a := Attribute{}
	a.Set(value)
	return a
}

// Set updates the value and recomputes the thresholds
func (a *Attribute) Set(value int) {
	if value < MinAttributeValue {
		value = MinAttributeValue
	}
	if value > MaxAttributeValue {
		value = MaxAttributeValue
	}
	a.Value = value
	a.HalfValue = value / 2
	a.FifthValue = value / 5
}

// IsConsistent reports whether the thresholds match the value
func (a Attribute) IsConsistent() bool {
	return a.HalfValue == a.Value/2 && a.FifthValue == a.Value/5
}

// Attributes holds the eight characteristics
type Attributes struct {
	Strength     Attribute `json:"strength" yaml:"strength"`
	Constitution Attribute `json:"constitution" yaml:"constitution"`
	Size         Attribute `json:"size" yaml:"size"`
	Dexterity    Attribute `json:"dexterity" yaml:"dexterity"`
	Appearance   Attribute `json:"appearance" yaml:"appearance"`
	Intelligence Attribute `json:"intelligence" yaml:"intelligence"`
	Power        Attribute `json:"power" yaml:"power"`
	Education    Attribute `json:"education" yaml:"education"`
}

func (a *Attributes) ref(key AttributeKey) *Attribute {
	switch key {
	case AttributeStrength:
		return &a.Strength
	case AttributeConstitution:
		return &a.Constitution
	case AttributeSize:
		return &a.Size
	case AttributeDexterity:
		return &a.Dexterity
	case AttributeAppearance:
		return &a.Appearance
	case AttributeIntelligence:
		return &a.Intelligence
	case AttributePower:
		return &a.Power
	case AttributeEducation:
		return &a.Education
	default:
		return nil
	}
}

// Get returns the attribute for key; unknown keys yield the zero Attribute
func (a Attributes) Get(key AttributeKey) Attribute {
	if ref := a.ref(key); ref != nil {
		return *ref
	}
	return Attribute{}
}

// Value is shorthand for Get(key).Value
func (a Attributes) Value(key AttributeKey) int {
	return a.Get(key).Value
}

// Set assigns a value to the attribute for key. Unknown keys are ignored.
func (a *Attributes) Set(key AttributeKey, value int) {
	if ref := a.ref(key); ref != nil {
		ref.Set(value)
	}
}
