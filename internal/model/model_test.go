package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	local := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.Local)
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-03-09", Date{2024, time.March, 9}, false},
		{local.Format(time.RFC3339), Date{2024, time.March, 9}, false},
		{"2024-03-09T00:00:00Z", Date{2024, time.March, 9}, false},
		{"2024-03-09T00:00:00-05:00", Date{2024, time.March, 9}, false},
		{"2024-03-09T23:30:00.5+09:00", Date{2024, time.March, 9}, false},
		{"", Date{}, true},
		{"09/03/2024", Date{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDateJSONKeepsCalendarDay(t *testing.T) {
	d := NewDate(2023, time.December, 31)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != *d {
		t.Fatalf("round trip changed date: %v -> %s -> %v", *d, data, back)
	}
}

func TestDateJSONIsCalendarDate(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, time.January, 5))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-01-05"` {
		t.Fatalf("got %s, want \"2024-01-05\"", data)
	}
}

// setLocal switches time.Local for the rest of the test.
func setLocal(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestDateSurvivesZoneChangeBetweenClientAndServer(t *testing.T) {
	clientZones := []*time.Location{
		time.FixedZone("UTC-5", -5*60*60),
		time.FixedZone("UTC+9", 9*60*60),
	}
	server := time.UTC
	want := Date{2024, time.January, 15}

	for _, client := range clientZones {
		setLocal(t, client)
		sent, err := json.Marshal(want)
		if err != nil {
			t.Fatal(err)
		}

		setLocal(t, server)
		var stored Date
		if err := json.Unmarshal(sent, &stored); err != nil {
			t.Fatal(err)
		}
		value, err := stored.Value()
		if err != nil {
			t.Fatal(err)
		}
		var scanned Date
		if err := scanned.Scan(value); err != nil {
			t.Fatal(err)
		}
		echoed, err := json.Marshal(scanned)
		if err != nil {
			t.Fatal(err)
		}

		setLocal(t, client)
		var back Date
		if err := json.Unmarshal(echoed, &back); err != nil {
			t.Fatal(err)
		}
		if stored != want || back != want {
			t.Errorf("client %s: sent %s, server stored %v, echoed %s, client read %v; want %v",
				client, sent, stored, echoed, back, want)
		}
	}
}

func TestTimestampKeepsDayOfItsOwnOffset(t *testing.T) {
	setLocal(t, time.FixedZone("UTC+9", 9*60*60))

	var d Date
	if err := json.Unmarshal([]byte(`"2024-01-15T00:00:00-05:00"`), &d); err != nil {
		t.Fatal(err)
	}
	if want := (Date{2024, time.January, 15}); d != want {
		t.Fatalf("got %v, want %v", d, want)
	}
}

func TestNullDateSerializesAsNull(t *testing.T) {
	in := BottleInput{Name: "Talisker 10"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, field := range []string{`"open_date":null`, `"purchase_date":null`, `"price":null`, `"opened":false`} {
		if !strings.Contains(s, field) {
			t.Errorf("expected %s in %s", field, s)
		}
	}
}

func TestSetOpened(t *testing.T) {
	today := Date{2025, time.June, 1}

	var o Openable
	o.SetOpened(true, today)
	if !o.Opened || o.OpenDate == nil || *o.OpenDate != today {
		t.Fatalf("opening without a date should assign today, got %+v", o)
	}

	explicit := NewDate(2025, time.May, 20)
	o = Openable{OpenDate: explicit}
	o.SetOpened(true, today)
	if *o.OpenDate != *explicit {
		t.Errorf("opening should keep an explicit date, got %v", *o.OpenDate)
	}

	o.SetOpened(false, today)
	if o.Opened || o.OpenDate != nil {
		t.Errorf("closing should clear the date, got %+v", o)
	}
}

func TestBottleInputNormalized(t *testing.T) {
	today := Date{2025, time.June, 1}
	in := BottleInput{Name: "  Rye  ", Openable: Openable{Opened: false, OpenDate: NewDate(2025, 1, 1)}}

	got := in.Normalized(today)
	if got.Name != "Rye" {
		t.Errorf("expected trimmed name, got %q", got.Name)
	}
	if got.OpenDate != nil {
		t.Errorf("unopened bottle must not carry an open date")
	}
	if in.OpenDate == nil {
		t.Errorf("Normalized must not modify its receiver")
	}
}

func TestPriceDecodesFromNumber(t *testing.T) {
	var b Bottle
	if err := json.Unmarshal([]byte(`{"id":3,"name":"Gin","opened":false,"price":24.5}`), &b); err != nil {
		t.Fatal(err)
	}
	if FormatPrice(b.Price) != "$24.50" {
		t.Errorf("expected $24.50, got %s", FormatPrice(b.Price))
	}
	if FormatPrice(nil) != "-" {
		t.Errorf("expected - for missing price")
	}

	data, _ := json.Marshal(b)
	if !strings.Contains(string(data), `"price":24.5`) {
		t.Errorf("expected price as a JSON number, got %s", data)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2022-02-02"); err != nil {
		t.Fatal(err)
	}
	if d != (Date{2022, time.February, 2}) {
		t.Errorf("unexpected date %v", d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestValidate(t *testing.T) {
	negative, err := NewPrice("-1")
	if err != nil {
		t.Fatal(err)
	}
	free, err := NewPrice("0")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"valid", BottleInput{Name: "Talisker 10"}, ""},
		{"zero price", MixerInput{Name: "Tonic", Price: free}, ""},
		{"empty name", BottleInput{}, "Name is required."},
		{"negative price", FreshInput{Name: "Lime juice", Price: negative}, "Price cannot be negative."},
	}

	for _, tt := range tests {
		err := Validate(tt.input)
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tt.want {
			t.Errorf("%s: Validate() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
