package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "valid", in: "2026-03-09", want: NewDate(2026, time.March, 9)},
		{name: "leap day", in: "2024-02-29", want: NewDate(2024, time.February, 29)},
		{name: "invalid month", in: "2026-13-01", wantErr: true},
		{name: "wrong layout", in: "09/03/2026", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2026, time.March, 9)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2026-03-09"` {
		t.Errorf("Marshal() = %s, want %q", data, "2026-03-09")
	}

	var got Date
	if err = json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(d) {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}

	if err = json.Unmarshal([]byte(`"not-a-date"`), &got); err == nil {
		t.Error("Unmarshal() expected error for invalid date")
	}
}

func TestDate_Scan(t *testing.T) {
	want := NewDate(2026, time.March, 9)

	var d Date
	if err := d.Scan(time.Date(2026, time.March, 9, 13, 37, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time) error = %v", err)
	}
	if !d.Equal(want) {
		t.Errorf("Scan(time.Time) = %v, want %v", d, want)
	}

	if err := d.Scan("2026-03-09"); err != nil {
		t.Fatalf("Scan(string) error = %v", err)
	}
	if !d.Equal(want) {
		t.Errorf("Scan(string) = %v, want %v", d, want)
	}

	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) expected error")
	}
}

func TestDateOf(t *testing.T) {
	at := time.Date(2026, time.March, 9, 23, 59, 59, 0, time.UTC)
	if got := DateOf(at); !got.Equal(NewDate(2026, time.March, 9)) {
		t.Errorf("DateOf() = %v", got)
	}
}
