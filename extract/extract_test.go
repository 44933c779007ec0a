package extract

import "testing"

func TestPhone(t *testing.T) {
	cases := []struct {
		input string
		want  string
		found bool
	}{
		{"text +1 415 555 0100 please", "+1 415 555 0100", true},
		{"call (415) 555-0100 now", "(415) 555-0100", true},
		{"no number here", "", false},
		{"short 12345", "", false},
	}

	for _, c := range cases {
		got, found := Phone(c.input)
		if found != c.found {
			t.Errorf("Phone(%q) found = %v, want %v", c.input, found, c.found)
			continue
		}
		if got != c.want {
			t.Errorf("Phone(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestLastPhone(t *testing.T) {
	got, found := LastPhone("old number +1 415 555 0100, new number +1 415 555 0199")
	if !found {
		t.Fatal("expected a match")
	}
	if got != "+1 415 555 0199" {
		t.Errorf("LastPhone = %q, want last number", got)
	}
}

func TestMessageQuoted(t *testing.T) {
	got := Message(`send a text saying "pickup at 5" to my brother`)
	if got != "pickup at 5" {
		t.Errorf("Message = %q, want quoted content", got)
	}
}

func TestMessageSayClause(t *testing.T) {
	got := Message("text him saying meet me at noon to confirm")
	if got != "meet me at noon" {
		t.Errorf("Message = %q, want say-clause content", got)
	}

	got = Message("Call mom and say I love her")
	if got != "i love her" {
		t.Errorf("Message = %q, want lowercased say content", got)
	}
}

func TestMessageDefault(t *testing.T) {
	if got := Message("send a text to +14155550100"); got != DefaultMessage {
		t.Errorf("Message = %q, want default", got)
	}
}

func TestImageDescription(t *testing.T) {
	got, found := ImageDescription("generate an image of a red fox.")
	if !found {
		t.Fatal("expected marker to be found")
	}
	if got != "a red fox" {
		t.Errorf("ImageDescription = %q, want %q", got, "a red fox")
	}

	got, found = ImageDescription("please DRAW an Image Of The Golden Gate Bridge at dusk!")
	if !found {
		t.Fatal("expected case-insensitive marker")
	}
	if got != "The Golden Gate Bridge at dusk" {
		t.Errorf("ImageDescription = %q", got)
	}

	if _, found := ImageDescription("describe a red fox"); found {
		t.Error("expected no match without marker")
	}
}
