package wire

import "testing"

func TestRole_StringParse(t *testing.T) {
	for _, r := range Roles() {
		got, ok := ParseRole(r.String())
		if !ok || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, ok)
		}
	}
	if r, ok := ParseRole("spaceship"); ok || r != RoleCustom {
		t.Errorf("unknown role should map to custom, got %v %v", r, ok)
	}
	if Role(999).String() != "custom" {
		t.Errorf("out of range role should print custom")
	}
}

func TestState_Flags(t *testing.T) {
	s := StateChecked.With(StateFocused, true)
	if !s.Has(StateChecked) || !s.Has(StateFocused) {
		t.Fatalf("flags not set: %v", s)
	}
	s = s.With(StateChecked, false)
	if s.Has(StateChecked) {
		t.Error("checked should be cleared")
	}
	if got := s.String(); got != "focused" {
		t.Errorf("String() = %q", got)
	}
	if !StateMultiselectable.Valid() || State(1<<14).Valid() {
		t.Error("mask boundaries wrong")
	}
}

func TestParseState(t *testing.T) {
	s, err := ParseState([]string{"Checked", " disabled", "multiselectable"})
	if err != nil {
		t.Fatal(err)
	}
	want := StateChecked | StateDisabled | StateMultiselectable
	if s != want {
		t.Errorf("got %v, want %v", s, want)
	}
	if _, err := ParseState([]string{"sparkly"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestParseLiveAndOrientation(t *testing.T) {
	if l, err := ParseLive("assertive"); err != nil || l != LiveAssertive {
		t.Errorf("ParseLive = %v, %v", l, err)
	}
	if l, err := ParseLive(""); err != nil || l != LiveOff {
		t.Errorf("empty live should be off: %v %v", l, err)
	}
	if _, err := ParseLive("loud"); err == nil {
		t.Error("expected error")
	}
	if o, err := ParseOrientation("Vertical"); err != nil || o != OrientationVertical {
		t.Errorf("ParseOrientation = %v, %v", o, err)
	}
	if _, err := ParseOrientation("diagonal"); err == nil {
		t.Error("expected error")
	}
}

func TestParseProperty(t *testing.T) {
	tests := []struct {
		in   string
		want Property
		ok   bool
	}{
		{"name", PropName, true},
		{"Label", PropName, true},
		{"checked", PropChecked, true},
		{"current", PropRangeValue, true},
		{"progress", PropRangeValue, true},
		{"visible", PropHidden, true},
		{"children", PropChildren, true},
		{"colour", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseProperty(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseProperty(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want ActionKind
	}{
		{"invoke", ActionInvoke},
		{"press", ActionInvoke},
		{"setValue", ActionSetValue},
		{"set_value", ActionSetValue},
		{"set-value", ActionSetValue},
		{"scrollIntoView", ActionScrollIntoView},
		{"TOGGLE", ActionToggle},
		{"decrement", ActionDecrement},
	}
	for _, tt := range tests {
		got, ok := ParseAction(tt.in)
		if !ok || got != tt.want {
			t.Errorf("ParseAction(%q) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := ParseAction("teleport"); ok {
		t.Error("unknown action should not parse")
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 2, Y: 1, Width: 3, Height: 2}
	if !r.Contains(2, 1) || !r.Contains(4, 2) {
		t.Error("expected inside")
	}
	if r.Contains(5, 1) || r.Contains(2, 3) || r.Contains(1, 1) {
		t.Error("expected outside")
	}
}
