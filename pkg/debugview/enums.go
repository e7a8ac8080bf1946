package debugview

import "strings"

// AccessMode is the property access mode recorded for a model, property or navigation.
type AccessMode int

// Access modes, in ascending precedence when a line carries more than one.
const (
	AccessDefault AccessMode = iota
	AccessField
	AccessFieldDuringConstruction
	AccessProperty
)

const accessModePrefix = "PropertyAccessMode."

func (m AccessMode) String() string {
	switch m {
	case AccessField:
		return accessModePrefix + "Field"
	case AccessFieldDuringConstruction:
		return accessModePrefix + "FieldDuringConstruction"
	case AccessProperty:
		return accessModePrefix + "Property"
	default:
		return accessModePrefix + "Default"
	}
}

func parseAccessMode(token string) (AccessMode, bool) {
	switch token {
	case accessModePrefix + "Field":
		return AccessField, true
	case accessModePrefix + "FieldDuringConstruction":
		return AccessFieldDuringConstruction, true
	case accessModePrefix + "Property":
		return AccessProperty, true
	case accessModePrefix + "Default":
		return AccessDefault, true
	}
	return AccessDefault, false
}

// accessModeOf returns the highest-precedence access mode among tokens.
func accessModeOf(tokens []string) AccessMode {
	mode := AccessDefault
	for _, t := range tokens {
		if m, ok := parseAccessMode(t); ok && m > mode {
			mode = m
		}
	}
	return mode
}

// SaveBehavior is a property's before-save or after-save behavior.
type SaveBehavior int

// Save behaviors, in ascending precedence.
const (
	SaveBehaviorSave SaveBehavior = iota
	SaveBehaviorIgnore
	SaveBehaviorThrow
)

const saveBehaviorPrefix = "PropertySaveBehavior."

func (b SaveBehavior) String() string {
	switch b {
	case SaveBehaviorIgnore:
		return saveBehaviorPrefix + "Ignore"
	case SaveBehaviorThrow:
		return saveBehaviorPrefix + "Throw"
	default:
		return saveBehaviorPrefix + "Save"
	}
}

// saveBehaviorOf finds the behavior flagged with the given prefix
// ("BeforeSave:" or "AfterSave:"). Both "AfterSave:Throw" and
// "AfterSave:PropertySaveBehavior.Throw" are recognized.
func saveBehaviorOf(tokens []string, prefix string) SaveBehavior {
	behavior := SaveBehaviorSave
	for _, t := range tokens {
		value, ok := strings.CutPrefix(t, prefix)
		if !ok {
			continue
		}
		var b SaveBehavior
		switch strings.TrimPrefix(value, saveBehaviorPrefix) {
		case "Ignore":
			b = SaveBehaviorIgnore
		case "Throw":
			b = SaveBehaviorThrow
		default:
			b = SaveBehaviorSave
		}
		if b > behavior {
			behavior = b
		}
	}
	return behavior
}

// PropertyCategory classifies a scalar property for diagram styling.
type PropertyCategory int

// Property categories.
const (
	CategoryOptional PropertyCategory = iota
	CategoryRequired
	CategoryForeign
	CategoryPrimary
)

func (c PropertyCategory) String() string {
	switch c {
	case CategoryRequired:
		return "Property Required"
	case CategoryForeign:
		return "Property Foreign"
	case CategoryPrimary:
		return "Property Primary"
	default:
		return "Property Optional"
	}
}

// categoryOf applies primary > foreign > required > optional.
func categoryOf(primary, foreign, required bool) PropertyCategory {
	switch {
	case primary:
		return CategoryPrimary
	case foreign:
		return CategoryForeign
	case required:
		return CategoryRequired
	default:
		return CategoryOptional
	}
}
