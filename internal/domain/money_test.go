package domain

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"10", "10", false},
		{"10.50", "10.5", false},
		{"0.01", "0.01", false},
		{"999999.99", "999999.99", false},
		{"0", "", true},
		{"-5", "", true},
		{"-0.01", "", true},
		{"10.505", "", true},
		{"0.001", "", true},
		{"abc", "", true},
		{"", "", true},
		{"1e3", "1000", false},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
