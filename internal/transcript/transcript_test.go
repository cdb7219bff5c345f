package transcript

import "testing"

func TestLog_AppendKeepsOrder(t *testing.T) {
	var log Log
	log.Append(Agent(KindGreeting, "Hi!"))
	log.Append(Candidate("=SUM(A1:A2)"))
	log.Append(Agent(KindFeedback, "Good (Score: 8)"))

	want := []string{
		"Agent: Hi!",
		"You: =SUM(A1:A2)",
		"Agent: Good (Score: 8)",
	}
	got := log.Strings()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLog_HintRendering(t *testing.T) {
	line := Agent(KindHint, "Use SUMIFS.")
	if got := line.String(); got != "Agent (hint): Use SUMIFS." {
		t.Errorf("String() = %q", got)
	}
}

func TestLog_LinesReturnsCopy(t *testing.T) {
	var log Log
	log.Append(Agent(KindGreeting, "Hi!"))

	lines := log.Lines()
	lines[0].Text = "mutated"

	if log.Lines()[0].Text != "Hi!" {
		t.Error("mutating the returned slice must not change the log")
	}
	if log.Len() != 1 {
		t.Errorf("Len = %d, want 1", log.Len())
	}
}
