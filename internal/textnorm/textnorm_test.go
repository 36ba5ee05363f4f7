package textnorm

import (
	"math"
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José  Núñez", "JOSE NUNEZ"},
		{"  john doe ", "JOHN DOE"},
		{"ＡＢＣ", "ABC"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("123 Main St., Apt #4")
	want := []string{"123", "MAIN", "ST", "APT", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if Key("Capital-One  BANK") != "CAPITAL ONE BANK" {
		t.Errorf("unexpected key %q", Key("Capital-One  BANK"))
	}
}

func TestLast4AndPostal(t *testing.T) {
	tests := []struct {
		in, last4 string
	}{
		{"XXXX-XXXX-1234", "1234"},
		{"****5678", "5678"},
		{"4111111111111111", "1111"},
		{"12", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Last4(tt.in); got != tt.last4 {
			t.Errorf("Last4(%q) = %q, want %q", tt.in, got, tt.last4)
		}
	}
	if PostalCode("30301-1234") != "30301" {
		t.Errorf("unexpected postal %q", PostalCode("30301-1234"))
	}
	if PostalCode("303") != "303" {
		t.Errorf("short postal should pass through")
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		ok      bool
		wantErr bool
	}{
		{"$1,234.56", 1234.56, true, false},
		{"2800", 2800, true, false},
		{"$0", 0, true, false},
		{"(12.50)", -12.5, true, false},
		{"-$1,000", -1000, true, false},
		{"-", 0, false, false},
		{"N/A", 0, false, false},
		{"", 0, false, false},
		{"twelve", 0, false, true},
		{"NaN", 0, false, true},
		{"$NaN", 0, false, true},
		{"Inf", 0, false, true},
		{"-Infinity", 0, false, true},
		{"1e9", 0, false, true},
		{"0x1p3", 0, false, true},
		{"1.2.3", 0, false, true},
		{".", 0, false, true},
		{".50", 0.5, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok, err := ParseMoney(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.ok {
				t.Errorf("ok = %v, want %v", ok, tt.ok)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2021-03-04", "2021-03-04", true},
		{"03/04/2021", "2021-03-04", true},
		{"3/4/2021", "2021-03-04", true},
		{"Mar 4, 2021", "2021-03-04", true},
		{"March 4, 2021", "2021-03-04", true},
		{"03/2021", "2021-03", true},
		{"Mar 2021", "2021-03", true},
		{"--", "", false},
		{"sometime", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseDate(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"John Doe", "JOHN DOE", 1},
		{"John A Doe", "John Doe", 0.8},
		{"123 Main St", "124 Main St", 2.0 / 3.0},
		{"", "", 1},
		{"John", "", 0},
		{"Alice Smith", "Bob Jones", 0},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
