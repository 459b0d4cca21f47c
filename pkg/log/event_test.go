package log

import "testing"

func TestSourceString(t *testing.T) {
	tests := []struct {
		source Source
		want   string
	}{
		{SourceFault, "FAULT"},
		{SourceTicker, "TICKER"},
		{SourceBoard, "BOARD"},
		{Source(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.source.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindTrigger, "TRIGGER"},
		{KindExtend, "EXTEND"},
		{KindRecover, "RECOVER"},
		{KindClear, "CLEAR"},
		{KindClearRefused, "CLEAR_REFUSED"},
		{KindHistoryClear, "HISTORY_CLEAR"},
		{KindRegister, "REGISTER"},
		{KindSchedulerInit, "SCHEDULER_INIT"},
		{KindTaskOverflow, "TASK_OVERFLOW"},
		{KindInput, "INPUT"},
		{Kind(200), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"trigger", KindTrigger, false},
		{"clear-refused", KindClearRefused, false},
		{"HISTORY_CLEAR", KindHistoryClear, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	if s, err := ParseSource("Ticker"); err != nil || s != SourceTicker {
		t.Errorf("ParseSource(Ticker) = %v, %v", s, err)
	}
	if _, err := ParseSource("radio"); err == nil {
		t.Error("ParseSource(radio) error = nil, want error")
	}
}

func TestFilterMatches(t *testing.T) {
	src := SourceFault
	kind := KindTrigger
	start := uint64(100)
	end := uint64(200)

	f := Filter{Source: &src, Kind: &kind, TickStart: &start, TickEnd: &end, Name: "ovp"}

	match := Event{Source: SourceFault, Kind: KindTrigger, Tick: 150, Name: "ovp"}
	if !f.Matches(match) {
		t.Error("Matches() = false for matching event")
	}

	misses := []Event{
		{Source: SourceTicker, Kind: KindTrigger, Tick: 150, Name: "ovp"},
		{Source: SourceFault, Kind: KindRecover, Tick: 150, Name: "ovp"},
		{Source: SourceFault, Kind: KindTrigger, Tick: 99, Name: "ovp"},
		{Source: SourceFault, Kind: KindTrigger, Tick: 200, Name: "ovp"},
		{Source: SourceFault, Kind: KindTrigger, Tick: 150, Name: "uvp"},
	}
	for i, e := range misses {
		if f.Matches(e) {
			t.Errorf("case %d: Matches() = true, want false", i)
		}
	}

	var empty Filter
	if !empty.Matches(misses[0]) {
		t.Error("empty filter should match everything")
	}
}
