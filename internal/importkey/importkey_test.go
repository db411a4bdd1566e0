package importkey

import "testing"

func TestProgram(t *testing.T) {
	got := Program(1, "100SL", "M25", "m")
	if want := "1|100SL|M25|M"; got != want {
		t.Errorf("Program = %q, want %q", got, want)
	}
}

func TestIndividual(t *testing.T) {
	prog := Program(1, "100SL", "M25", "M")
	got := Individual(prog, "M|ROSSI|MARIO|1995|Nuoto Club")
	if want := "1|100SL|M25|M|M|ROSSI|MARIO|1995|Nuoto Club"; got != want {
		t.Errorf("Individual = %q, want %q", got, want)
	}
}

func TestRelayKeyIncludesTiming(t *testing.T) {
	prog := Program(1, "S4X50MI", "100-119", "M")
	a := Relay(prog, "Nuoto Club", "2'05.40")
	b := Relay(prog, "Nuoto Club", "2'08.90")
	if a == b {
		t.Error("two squads of the same team must get distinct keys")
	}
	if a != Relay(prog, " Nuoto  Club ", "2'05.40") {
		t.Error("cosmetic whitespace must not change the key")
	}
}

func TestChildKeys(t *testing.T) {
	result := "1|100SL|M25|M|M|ROSSI|MARIO|1995|Nuoto Club"
	if got := Lap(result, 50); got != result+"|50" {
		t.Errorf("Lap = %q", got)
	}
	relay := "1|S4X50MI|100-119|M|Nuoto Club|2'05.40"
	leg := RelaySwimmer(relay, 2)
	if leg != relay+"|2" {
		t.Errorf("RelaySwimmer = %q", leg)
	}
	if got := RelayLap(leg, 100); got != leg+"|100" {
		t.Errorf("RelayLap = %q", got)
	}
}

func TestKeysAreDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if Program(2, "200RA", "M30", "F") != "2|200RA|M30|F" {
			t.Fatal("key changed between invocations")
		}
	}
}
