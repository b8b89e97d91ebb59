package tac

// Target is one side of a boolean jump: either a real label or Fall, meaning
// control reaches the destination by running into the next emitted line.
type Target struct {
	label Label
}

// Fall is the target satisfied by sequential execution. No jump is emitted
// for it.
var Fall = Target{}

// To returns a target jumping to l.
func To(l Label) Target {
	return Target{label: l}
}

// IsFall reports whether t is Fall.
func (t Target) IsFall() bool {
	return t.label == ""
}

// Label returns the label of a real target and "" for Fall.
func (t Target) Label() Label {
	return t.label
}

func (t Target) String() string {
	if t.IsFall() {
		return "fall"
	}
	return string(t.label)
}

// Targets is the inherited pair of destinations for a boolean expression.
type Targets struct {
	True  Target
	False Target
}

// Swap exchanges the true and false destinations.
func (tg Targets) Swap() Targets {
	return Targets{True: tg.False, False: tg.True}
}
